package copc

import "fmt"

// ReferencedPageMissingError indicates a hierarchy entry's point_count
// of -1 names a child page that was never supplied to the iterator's
// sub-pages map.
type ReferencedPageMissingError struct {
	Entry Entry
}

func (e *ReferencedPageMissingError) Error() string {
	return fmt.Sprintf("copc: hierarchy page referenced by entry %s is missing", e.Entry.Key)
}

// InvalidVoxelChildDirectionError indicates VoxelKey.Child was called
// with a direction outside 0..7.
type InvalidVoxelChildDirectionError struct {
	Direction int
}

func (e *InvalidVoxelChildDirectionError) Error() string {
	return fmt.Sprintf("copc: voxel child direction %d is outside the valid range 0..7", e.Direction)
}
