package normalize

import (
	"testing"
	"time"
)

// TestPhone locks in the digit-stripping and +91 formatting rules.
func TestPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "country code with spaces", in: "+91 98765 43210", want: "+91-9876543210", wantOK: true},
		{name: "leading zero trunk prefix", in: "09876543210", want: "+91-9876543210", wantOK: true},
		{name: "plain ten digits", in: "9876543210", want: "+91-9876543210", wantOK: true},
		{name: "dashes and parens", in: "(987) 654-3210", want: "+91-9876543210", wantOK: true},
		{name: "too short returned verbatim", in: "12345", want: "12345", wantOK: true},
		{name: "91 prefix on ten digits is kept", in: "9198765432", want: "+91-9198765432", wantOK: true},
		{name: "empty", in: "", want: "", wantOK: false},
		{name: "no digits", in: "n/a", want: "", wantOK: false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Phone(tc.in)
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("Phone(%q) = (%q,%v); want (%q,%v)", tc.in, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"electronics", "Electronics"},
		{"  ELECTRONICS ", "Electronics"},
		{"Fashion", "Fashion"},
		{"groceries", "Groceries"},
		{"home & KITCHEN", "Home & Kitchen"},
		{"  sports ", "Sports"},
		{"", UnknownCategory},
		{"   ", UnknownCategory},
	}
	for _, tc := range tests {
		if got := Category(tc.in); got != tc.want {
			t.Fatalf("Category(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestTitle(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"new delhi", "New Delhi"},
		{"  MUMBAI ", "Mumbai"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Title(tc.in); got != tc.want {
			t.Fatalf("Title(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

// TestParseMixedDate covers each layout plus the accepted day/month
// ambiguity, which resolves month-first.
func TestParseMixedDate(t *testing.T) {
	t.Parallel()

	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{"2024-01-15", day(2024, time.January, 15), true},
		{"15/01/2024", day(2024, time.January, 15), true},
		{"03/12/2024", day(2024, time.March, 12), true},
		{"01-22-2024", day(2024, time.January, 22), true},
		{" 2024-02-29 ", day(2024, time.February, 29), true},
		{"not-a-date", time.Time{}, false},
		{"", time.Time{}, false},
		{"2024/01/15", time.Time{}, false},
		{"1/5/2024", time.Time{}, false},
		{"31/02/2024", time.Time{}, false},
		{"13-01-2024", time.Time{}, false},
		{"2023-02-29", time.Time{}, false},
	}
	for _, tc := range tests {
		got, ok := ParseMixedDate(tc.in)
		if ok != tc.wantOK || !got.Equal(tc.want) {
			t.Fatalf("ParseMixedDate(%q) = (%v,%v); want (%v,%v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestEmailIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"  Rahul.Sharma@Gmail.com ", "a@b.c", "", "MIXED+1@Example.ORG"} {
		once := Email(in)
		if twice := Email(once); twice != once {
			t.Fatalf("Email not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
	if got := Email("  Rahul@Gmail.COM "); got != "rahul@gmail.com" {
		t.Fatalf("Email = %q", got)
	}
}

func TestPlaceholderEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		first, last, code, want string
	}{
		{"Rahul", "Sharma", "C001", "rahul.sharma.c001@unknown.email"},
		{"", "Sharma", "C002", "customer.sharma.c002@unknown.email"},
		{"Priya", "  ", "C003", "priya.unknown.c003@unknown.email"},
		{"", "", "C004", "customer.unknown.c004@unknown.email"},
	}
	for _, tc := range tests {
		if got := PlaceholderEmail(tc.first, tc.last, tc.code); got != tc.want {
			t.Fatalf("PlaceholderEmail(%q,%q,%q) = %q; want %q", tc.first, tc.last, tc.code, got, tc.want)
		}
	}
}
