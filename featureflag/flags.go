package featureflag

type Flag string

const (
	// Every layer gathers query candidates by enumerating query points.
	FlagForceDirectQuery Flag = "FORCE_DIRECT_QUERY"

	// Every layer gathers query candidates by scanning grid buckets.
	FlagForceBucketQuery Flag = "FORCE_BUCKET_QUERY"

	FlagDisableGeneration Flag = "DISABLE_GENERATION"
	FlagDisableViewStream Flag = "DISABLE_VIEW_STREAM"
)
