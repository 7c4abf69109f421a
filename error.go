package sgp4

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrLine1Parse is returned by Init when line 1 does not scan into 13 fields.
	ErrLine1Parse = errors.New("sgp4: cannot scan TLE line 1")
	// ErrLine2Parse is returned by Init when line 2 does not scan into 8 fields.
	ErrLine2Parse = errors.New("sgp4: cannot scan TLE line 2")
	// ErrPropagationFailed is matched by every propagation error.
	ErrPropagationFailed = errors.New("sgp4: propagation failed")
	// ErrZeroRange is returned when observer and satellite coincide.
	ErrZeroRange = errors.New("sgp4: zero topocentric range")

	// ErrLocationNil is returned when the location is nil.
	ErrLocationNil = errors.New("location cannot be nil")
	// ErrInvalidLocationLatitude is returned for latitudes outside [-90, 90].
	ErrInvalidLocationLatitude = errors.New("invalid location latitude")
)

// Legacy integer codes, as returned by the C pointing library.
const (
	CodeOK                = 0
	CodeLine1Parse        = -1
	CodeLine2Parse        = -2
	CodePropagationFailed = -1
)

// Code maps an error returned by this package to the legacy integer code:
// 0 for nil, -1 for a line 1 or propagation failure, -2 for a line 2 failure.
// Errors from elsewhere map to -1.
func Code(err error) int {
	if err == nil {
		return CodeOK
	}
	if errors.Is(err, ErrLine2Parse) {
		return CodeLine2Parse
	}
	if errors.Is(err, ErrLine1Parse) {
		return CodeLine1Parse
	}
	return CodePropagationFailed
}

// DecayedError is returned when the propagated radius falls below one Earth radius.
type DecayedError struct {
	Tsince float64 // minutes since epoch
	Radius float64 // Earth radii
}

func (e *DecayedError) Error() string {
	return fmt.Sprintf("sgp4: satellite has decayed (at tsince %.2f min, radius %.4f < 1.0 Earth radii)", e.Tsince, e.Radius)
}

// Is makes errors.Is(err, ErrPropagationFailed) true.
func (e *DecayedError) Is(target error) bool { return target == ErrPropagationFailed }

// ModelLimitsReason is the model limit that was violated.
type ModelLimitsReason int

const (
	ReasonMeanEccentricity      ModelLimitsReason = 1
	ReasonMeanMotion            ModelLimitsReason = 2
	ReasonPerturbedEccentricity ModelLimitsReason = 3
	ReasonSemiLatusRectum       ModelLimitsReason = 4
)

func (r ModelLimitsReason) String() string {
	switch r {
	case ReasonMeanEccentricity:
		return "mean eccentricity outside [-0.001, 1)"
	case ReasonMeanMotion:
		return "mean motion <= 0"
	case ReasonPerturbedEccentricity:
		return "perturbed eccentricity outside [0, 1]"
	case ReasonSemiLatusRectum:
		return "semi-latus rectum < 0"
	}
	return "unknown"
}

// ModelLimitsError is returned when SGP4 internal limits are exceeded,
// usually by extreme drag far from epoch.
type ModelLimitsError struct {
	Tsince float64 // minutes since epoch
	Reason ModelLimitsReason
	Value  float64 // the offending value
}

func (e *ModelLimitsError) Error() string {
	return fmt.Sprintf("sgp4: model limits exceeded at tsince %.2f min: %s (value %.6e)", e.Tsince, e.Reason, e.Value)
}

// Is makes errors.Is(err, ErrPropagationFailed) true.
func (e *ModelLimitsError) Is(target error) bool { return target == ErrPropagationFailed }

// errorCode is the numeric code kept on the record, as Vallado numbers them.
func errorCode(err error) int {
	switch e := errors.Cause(err).(type) {
	case *ModelLimitsError:
		return int(e.Reason)
	case *DecayedError:
		return 6
	}
	return 0
}
