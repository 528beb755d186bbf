package currency

import "testing"

func TestConvert(t *testing.T) {
	n := NewNormalizer(0.85, 1.15)

	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"dollar range", "$100,000 - $120,000", "85000.00€ - 102000.00€", true},
		{"pound single", "£50000", "57500.00€ - 57500.00€", true},
		{"plain range", "40000 - 60000", "40000.00€ - 60000.00€", true},
		{"letters without marker", "Competitive", "", false},
		{"usd word", "USD 1000 - 2000", "850.00€ - 1700.00€", true},
		{"usd lower", "1000-2000 usd", "850.00€ - 1700.00€", true},
		{"dollar with k suffix", "$90k", "76.50€ - 76.50€", true},
		{"three numbers", "$10 - $20 - $30", "8.50€ - 17.00€", true},
		{"decimals", "£10.40", "11.96€ - 11.96€", true},
		{"dollar beats pound", "$100 £200", "85.00€ - 170.00€", true},
		{"empty", "", "", false},
		{"marker no digits", "$", "", false},
		{"punctuation only", " - ", "", false},
		{"euro sign only", "30000€ - 40000€", "30000.00€ - 40000.00€", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.Convert(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("Convert(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Convert(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvert_Idempotent(t *testing.T) {
	n := NewNormalizer(0.85, 1.15)
	for _, in := range []string{"$100,000 - $120,000", "£50000", "40000 - 60000", "1234.5"} {
		once, ok := n.Convert(in)
		if !ok {
			t.Fatalf("Convert(%q) not representable", in)
		}
		twice, ok := n.Convert(once)
		if !ok {
			t.Fatalf("Convert(%q) not representable", once)
		}
		if twice != once {
			t.Errorf("Convert(Convert(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestConvert_CustomRates(t *testing.T) {
	n := NewNormalizer(0.5, 2)
	if got, _ := n.Convert("$10"); got != "5.00€ - 5.00€" {
		t.Errorf("usd = %q", got)
	}
	if got, _ := n.Convert("£10 - £20"); got != "20.00€ - 40.00€" {
		t.Errorf("gbp = %q", got)
	}
}

func TestConvertPtr(t *testing.T) {
	n := NewNormalizer(0.85, 1.15)
	if p := n.ConvertPtr("Negotiable"); p != nil {
		t.Errorf("expected nil, got %q", *p)
	}
	p := n.ConvertPtr("100")
	if p == nil || *p != "100.00€ - 100.00€" {
		t.Errorf("ConvertPtr(100) = %v", p)
	}
}
