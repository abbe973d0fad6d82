package domain

type ExecutionKind string

const (
	KindTask  ExecutionKind = "task"
	KindHabit ExecutionKind = "habit"
)

// ValidExecutionKinds is the canonical set of accepted execution kind strings.
var ValidExecutionKinds = map[string]bool{
	"task": true, "habit": true,
}

type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceMobile  DeviceType = "mobile"
	DeviceWeb     DeviceType = "web"
	DeviceTablet  DeviceType = "tablet"
)

// ValidDeviceTypes is the canonical set of accepted device type strings.
var ValidDeviceTypes = map[string]bool{
	"desktop": true, "mobile": true, "web": true, "tablet": true,
}

type SessionStatus string

const (
	SessionRunning SessionStatus = "running"
	SessionPaused  SessionStatus = "paused"
)

type ResetScope string

const (
	ResetToday ResetScope = "today"
	ResetAll   ResetScope = "all"
)

// ValidResetScopes is the canonical set of accepted log reset scopes.
var ValidResetScopes = map[string]bool{
	"today": true, "all": true,
}
