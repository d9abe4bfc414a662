package lzma

import "testing"

func TestVerifyProperties(t *testing.T) {
	if err := verifyProperties(3, 0, 2); err != nil {
		t.Errorf("verifyProperties(3, 0, 2) error %s", err)
	}
	if err := verifyProperties(9, 0, 2); err == nil {
		t.Fatal("verifyProperties(9, 0, 2) no error")
	}
}

func TestProperties(t *testing.T) {
	tests := []struct{ lc, lp, pb int }{
		{3, 0, 2}, {0, 0, 0}, {8, 4, 4}, {1, 2, 3},
	}
	for _, c := range tests {
		p, err := NewProperties(c.lc, c.lp, c.pb)
		if err != nil {
			t.Fatalf("NewProperties(%d,%d,%d) error %s",
				c.lc, c.lp, c.pb, err)
		}
		if p.LC() != c.lc {
			t.Errorf("LC() %d; want %d", p.LC(), c.lc)
		}
		if p.LP() != c.lp {
			t.Errorf("LP() %d; want %d", p.LP(), c.lp)
		}
		if p.PB() != c.pb {
			t.Errorf("PB() %d; want %d", p.PB(), c.pb)
		}
	}
}
