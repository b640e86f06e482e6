package world

const (
	ErrTypeInvalidConfig = "invalid_world_config"
	ErrTypeUnknownKind   = "unknown_kind"
)
