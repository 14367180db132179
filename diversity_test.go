package curate

import "testing"

func group(members ...ImageRecord) SimilarityGroup {
	return SimilarityGroup{Members: members}
}

func TestSelectDiverse_OnePerGroup(t *testing.T) {
	t.Parallel()

	groups := []SimilarityGroup{
		group(
			rec("g1-low", CategoryMain, 1, 0.6, "shoe"),
			rec("g1-high", CategoryMain, 1, 0.9, "shoe"),
		),
		group(rec("g2", CategoryDetail, 1, 0.8, "sole")),
		group(rec("g3", CategoryLifestyle, 1, 0.7, "street")),
	}

	div := SelectDiverse(groups, 0)

	if len(div.DiverseSet) != len(groups) {
		t.Fatalf("diverse set has %d entries, want %d", len(div.DiverseSet), len(groups))
	}
	if div.DiverseSet[0].ImageURL != "g1-high" {
		t.Errorf("top entry = %s, want g1-high (highest score first)", div.DiverseSet[0].ImageURL)
	}
	// Descending score order.
	for i := 1; i < len(div.DiverseSet); i++ {
		if div.DiverseSet[i].overallScore() > div.DiverseSet[i-1].overallScore() {
			t.Errorf("diverse set not sorted by descending score at index %d", i)
		}
	}
}

func TestSelectDiverse_TieBreaks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		members []ImageRecord
		want    string
	}{
		{
			name: "higher score wins",
			members: []ImageRecord{
				rec("a", CategoryMain, 0.5, 0.7),
				rec("b", CategoryMain, 0.9, 0.8),
			},
			want: "b",
		},
		{
			name: "equal score falls back to confidence",
			members: []ImageRecord{
				rec("a", CategoryMain, 0.5, 0.8),
				rec("b", CategoryMain, 0.9, 0.8),
			},
			want: "b",
		},
		{
			name: "equal score and confidence keeps batch order",
			members: []ImageRecord{
				rec("a", CategoryMain, 0.9, 0.8),
				rec("b", CategoryMain, 0.9, 0.8),
			},
			want: "a",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := representative(group(tc.members...))
			if got.ImageURL != tc.want {
				t.Errorf("representative = %s, want %s", got.ImageURL, tc.want)
			}
		})
	}
}

func TestSelectDiverse_ByCategoryBuckets(t *testing.T) {
	t.Parallel()

	groups := []SimilarityGroup{
		group(rec("m1", CategoryMain, 1, 0.9)),
		group(rec("m2", CategoryMain, 1, 0.7)),
		group(rec("d1", CategoryDetail, 1, 0.8)),
		group(rec("u1", CategoryUnknown, 0, 0.5)),
	}

	div := SelectDiverse(groups, 0)

	mains := div.ByCategory[CategoryMain]
	if len(mains) != 2 {
		t.Fatalf("main bucket has %d entries, want 2", len(mains))
	}
	if mains[0].ImageURL != "m1" || mains[1].ImageURL != "m2" {
		t.Errorf("main bucket order = [%s %s], want [m1 m2]", mains[0].ImageURL, mains[1].ImageURL)
	}
	if len(div.ByCategory[CategoryUnknown]) != 1 {
		t.Errorf("unknown bucket has %d entries, want 1", len(div.ByCategory[CategoryUnknown]))
	}
}

func TestSelectDiverse_CategoryCap(t *testing.T) {
	t.Parallel()

	groups := []SimilarityGroup{
		group(rec("m1", CategoryMain, 1, 0.9)),
		group(rec("m2", CategoryMain, 1, 0.8)),
		group(rec("m3", CategoryMain, 1, 0.7)),
	}

	div := SelectDiverse(groups, 2)

	if len(div.ByCategory[CategoryMain]) != 2 {
		t.Fatalf("capped bucket has %d entries, want 2", len(div.ByCategory[CategoryMain]))
	}
	// Capped-out representatives remain in the diverse set.
	if len(div.DiverseSet) != 3 {
		t.Errorf("diverse set has %d entries, want 3 (cap affects buckets only)", len(div.DiverseSet))
	}
	// Highest quality entries survive the cap.
	if div.ByCategory[CategoryMain][0].ImageURL != "m1" {
		t.Errorf("first capped entry = %s, want m1", div.ByCategory[CategoryMain][0].ImageURL)
	}
}

func TestSelectDiverse_Empty(t *testing.T) {
	t.Parallel()

	div := SelectDiverse(nil, 0)
	if len(div.DiverseSet) != 0 {
		t.Errorf("diverse set not empty: %v", div.DiverseSet)
	}
	if div.ByCategory == nil {
		t.Error("ByCategory is nil, want empty map")
	}
}
