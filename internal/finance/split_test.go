package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func partner(name string, points int) PartnerWeight {
	return PartnerWeight{WorkerID: uuid.New(), Name: name, Points: points}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func assertSums(t *testing.T, shares []Share, wantAmount decimal.Decimal) {
	t.Helper()
	amountSum := decimal.Zero
	percentSum := decimal.Zero
	for _, s := range shares {
		amountSum = amountSum.Add(s.Amount)
		percentSum = percentSum.Add(s.Percentage)
	}
	if !amountSum.Equal(wantAmount.Round(2)) {
		t.Fatalf("amounts sum to %s, want %s", amountSum, wantAmount.Round(2))
	}
	if !percentSum.Equal(dec("100")) {
		t.Fatalf("percentages sum to %s, want 100", percentSum)
	}
}

func TestComputeSplitProportional(t *testing.T) {
	shares := ComputeSplit(dec("1000"), []PartnerWeight{partner("Ana", 60), partner("Beto", 40)})
	if len(shares) != 2 {
		t.Fatalf("got %d shares, want 2", len(shares))
	}
	if !shares[0].Amount.Equal(dec("600")) || !shares[1].Amount.Equal(dec("400")) {
		t.Fatalf("got amounts %s / %s, want 600 / 400", shares[0].Amount, shares[1].Amount)
	}
	if !shares[0].Percentage.Equal(dec("60")) || !shares[1].Percentage.Equal(dec("40")) {
		t.Fatalf("got percentages %s / %s, want 60 / 40", shares[0].Percentage, shares[1].Percentage)
	}
	assertSums(t, shares, dec("1000"))
}

func TestComputeSplitLastAbsorbsRemainder(t *testing.T) {
	shares := ComputeSplit(dec("100"), []PartnerWeight{partner("A", 1), partner("B", 1), partner("C", 1)})
	if len(shares) != 3 {
		t.Fatalf("got %d shares, want 3", len(shares))
	}
	if !shares[0].Amount.Equal(dec("33.33")) || !shares[1].Amount.Equal(dec("33.33")) {
		t.Fatalf("got first two amounts %s / %s, want 33.33 / 33.33", shares[0].Amount, shares[1].Amount)
	}
	if !shares[2].Amount.Equal(dec("33.34")) {
		t.Fatalf("got last amount %s, want 33.34", shares[2].Amount)
	}
	if !shares[2].Percentage.Equal(dec("33.34")) {
		t.Fatalf("got last percentage %s, want 33.34", shares[2].Percentage)
	}
	assertSums(t, shares, dec("100"))
}

func TestComputeSplitSinglePartner(t *testing.T) {
	shares := ComputeSplit(dec("123.45"), []PartnerWeight{partner("Solo", 7)})
	if len(shares) != 1 {
		t.Fatalf("got %d shares, want 1", len(shares))
	}
	if !shares[0].Amount.Equal(dec("123.45")) {
		t.Fatalf("got amount %s, want 123.45", shares[0].Amount)
	}
	if !shares[0].Percentage.Equal(dec("100")) {
		t.Fatalf("got percentage %s, want 100", shares[0].Percentage)
	}
}

func TestComputeSplitDegenerateInputs(t *testing.T) {
	cases := []struct {
		name     string
		margin   decimal.Decimal
		partners []PartnerWeight
	}{
		{"no partners", dec("500"), nil},
		{"zero margin", dec("0"), []PartnerWeight{partner("A", 1)}},
		{"negative margin", dec("-50"), []PartnerWeight{partner("A", 1), partner("B", 1)}},
		{"zero total points", dec("500"), []PartnerWeight{partner("A", 0), partner("B", 0)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shares := ComputeSplit(tc.margin, tc.partners)
			if len(shares) != 0 {
				t.Fatalf("got %d shares, want 0", len(shares))
			}
		})
	}
}

func TestComputeSplitAwkwardAmounts(t *testing.T) {
	partners := []PartnerWeight{partner("A", 1), partner("B", 2), partner("C", 4)}
	for _, margin := range []string{"100.01", "0.01", "999.99", "3333.33"} {
		shares := ComputeSplit(dec(margin), partners)
		if len(shares) != 3 {
			t.Fatalf("margin %s: got %d shares, want 3", margin, len(shares))
		}
		assertSums(t, shares, dec(margin))
	}
}

func TestComputeSplitDeterministic(t *testing.T) {
	partners := []PartnerWeight{partner("A", 3), partner("B", 5), partner("C", 2)}
	first := ComputeSplit(dec("777.77"), partners)
	for i := 0; i < 50; i++ {
		again := ComputeSplit(dec("777.77"), partners)
		if len(again) != len(first) {
			t.Fatalf("run %d: got %d shares, want %d", i, len(again), len(first))
		}
		for j := range first {
			if !again[j].Amount.Equal(first[j].Amount) || !again[j].Percentage.Equal(first[j].Percentage) {
				t.Fatalf("run %d: share %d differs: %s/%s vs %s/%s",
					i, j, again[j].Amount, again[j].Percentage, first[j].Amount, first[j].Percentage)
			}
		}
	}
}
