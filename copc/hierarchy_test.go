package copc

import "testing"

func TestPageEncodeParseRoundTrip(t *testing.T) {
	page := Page{
		{Key: VoxelKey{Level: 0}, Offset: 1000, ByteSize: 500, PointCount: 100},
		{Key: VoxelKey{Level: 1, X: 1}, Offset: 1500, ByteSize: 300, PointCount: 50},
	}
	encoded := page.Encode()
	if len(encoded) != len(page)*EntrySize {
		t.Fatalf("encoded length = %d, want %d", len(encoded), len(page)*EntrySize)
	}
	got, err := ParsePage(encoded)
	if err != nil {
		t.Fatalf("ParsePage: %v", err)
	}
	if len(got) != len(page) {
		t.Fatalf("got %d entries, want %d", len(got), len(page))
	}
	for i := range page {
		if got[i] != page[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], page[i])
		}
	}
}

func TestWalkVisitsEveryNonReferenceEntryOnce(t *testing.T) {
	childKey := VoxelKey{Level: 1, X: 0, Y: 0, Z: 0}
	root := Page{
		{Key: VoxelKey{Level: 0}, PointCount: 10},
		{Key: childKey, PointCount: -1},
	}
	subPages := map[VoxelKey]Page{
		childKey: {
			{Key: VoxelKey{Level: 2, X: 0, Y: 0, Z: 0}, PointCount: 5},
			{Key: VoxelKey{Level: 2, X: 1, Y: 0, Z: 0}, PointCount: 3},
		},
	}

	entries, err := Entries(root, subPages)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("visited %d entries, want 3", len(entries))
	}
	if entries[0].Key.Level != 0 {
		t.Errorf("first visited entry should be the root-level one, got %+v", entries[0])
	}
}

func TestWalkMissingPageSurfacesError(t *testing.T) {
	childKey := VoxelKey{Level: 1, X: 5, Y: 5, Z: 5}
	root := Page{
		{Key: childKey, PointCount: -1},
	}
	_, err := Entries(root, map[VoxelKey]Page{})
	refErr, ok := err.(*ReferencedPageMissingError)
	if !ok {
		t.Fatalf("got %T, want *ReferencedPageMissingError", err)
	}
	if refErr.Entry.Key != childKey {
		t.Errorf("error references key %+v, want %+v", refErr.Entry.Key, childKey)
	}
}
