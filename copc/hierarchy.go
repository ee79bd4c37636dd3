package copc

// Page is one contiguous block of Entry records;
// page_bytes / EntrySize gives its length.
type Page []Entry

// ParsePage decodes a hierarchy page payload into its Entry records.
func ParsePage(b []byte) (Page, error) {
	n := len(b) / EntrySize
	page := make(Page, n)
	for i := 0; i < n; i++ {
		e, err := ParseEntry(b[i*EntrySize : (i+1)*EntrySize])
		if err != nil {
			return nil, err
		}
		page[i] = e
	}
	return page, nil
}

// Encode serializes a Page back to its on-disk bytes.
func (p Page) Encode() []byte {
	buf := make([]byte, 0, len(p)*EntrySize)
	for _, e := range p {
		buf = append(buf, e.Encode()...)
	}
	return buf
}

// Walk visits every non-reference entry reachable from root exactly
// once, depth-first, recursing into referenced pages looked up by the
// referencing entry's VoxelKey in subPages. A page-reference entry whose key is absent from subPages
// surfaces as ReferencedPageMissingError.
func Walk(root Page, subPages map[VoxelKey]Page, visit func(Entry) error) error {
	for _, e := range root {
		if e.IsPageReference() {
			child, ok := subPages[e.Key]
			if !ok {
				return &ReferencedPageMissingError{Entry: e}
			}
			if err := Walk(child, subPages, visit); err != nil {
				return err
			}
			continue
		}
		if err := visit(e); err != nil {
			return err
		}
	}
	return nil
}

// Entries collects every non-reference entry reachable from root, in
// the same depth-first order Walk visits them.
func Entries(root Page, subPages map[VoxelKey]Page) ([]Entry, error) {
	var out []Entry
	err := Walk(root, subPages, func(e Entry) error {
		out = append(out, e)
		return nil
	})
	return out, err
}
