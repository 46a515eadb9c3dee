// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package rank

import "testing"

func TestName_TableRanks(t *testing.T) {
	if len(Table) != 30 {
		t.Fatalf("rank table has %d entries, expected 30", len(Table))
	}

	for r := 1; r <= len(Table); r++ {
		if got := Name(r); got != Table[r-1] {
			t.Errorf("Name(%d) = %q, expected %q", r, got, Table[r-1])
		}
	}

	if got := Name(1); got != "Recruit" {
		t.Errorf("Name(1) = %q, expected Recruit", got)
	}
	if got := Name(30); got != "Generalissimo" {
		t.Errorf("Name(30) = %q, expected Generalissimo", got)
	}
}

func TestName_LegendRanks(t *testing.T) {
	tests := []struct {
		rank     int
		expected string
	}{
		{31, "Legend 2"},
		{32, "Legend 3"},
		{60, "Legend 31"},
		{130, "Legend 101"},
	}

	for _, tt := range tests {
		if got := Name(tt.rank); got != tt.expected {
			t.Errorf("Name(%d) = %q, expected %q", tt.rank, got, tt.expected)
		}
	}
}

func TestName_BelowOne(t *testing.T) {
	for _, r := range []int{0, -1, -30} {
		if got := Name(r); got != UnknownName {
			t.Errorf("Name(%d) = %q, expected %q", r, got, UnknownName)
		}
	}
}

func TestFormatThousands(t *testing.T) {
	tests := []struct {
		n        int
		expected string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1 000"},
		{12345, "12 345"},
		{100000, "100 000"},
		{1234567, "1 234 567"},
		{1000000000, "1 000 000 000"},
		{1 << 53, "9 007 199 254 740 992"},
	}

	for _, tt := range tests {
		if got := FormatThousands(tt.n); got != tt.expected {
			t.Errorf("FormatThousands(%d) = %q, expected %q", tt.n, got, tt.expected)
		}
	}
}

func TestIconKey(t *testing.T) {
	tests := []struct {
		name     string
		premium  bool
		rank     int
		expected string
	}{
		{"normal single digit", false, 5, "iconsnormal_05"},
		{"normal first", false, 1, "iconsnormal_01"},
		{"premium two digits", true, 17, "iconspremium_17"},
		{"last icon", false, 31, "iconsnormal_31"},
		{"premium clamped", true, 40, "iconspremium_31"},
		{"normal clamped", false, 99, "iconsnormal_31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IconKey(tt.premium, tt.rank); got != tt.expected {
				t.Errorf("IconKey(%v, %d) = %q, expected %q", tt.premium, tt.rank, got, tt.expected)
			}
		})
	}
}
