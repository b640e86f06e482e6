package spatial

// DebugInfo describes the state of a layer.
type DebugInfo struct {
	Category        string `json:"category"`
	Layer           string `json:"layer"`
	CellSize        int    `json:"cell_size"`
	VolumeThreshold int    `json:"volume_threshold"`
	Strategy        string `json:"strategy"`
	ObjectCount     int    `json:"object_count"`
	BucketCount     int    `json:"bucket_count"`
	RefCount        int    `json:"ref_count"`
	PointCount      int    `json:"point_count"`

	// Occupancy maps a bucket size to the number of buckets of that size.
	Occupancy map[int]int `json:"occupancy"`
}

// Inspector is implemented by types that can report the state of their
// spatial layers.
type Inspector interface {
	DebugInfo() []DebugInfo
}
