package mqtt

import "errors"

// ErrPublishFailed is returned once every publish attempt for a setpoint failed.
var ErrPublishFailed = errors.New("setpoint publish failed")
