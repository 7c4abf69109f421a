package sgp4

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// OMM is one CCSDS Orbit Mean-elements Message in the JSON form served by
// CelesTrak and space-track.org.
type OMM struct {
	ObjectName         string  `json:"OBJECT_NAME"`
	ObjectID           string  `json:"OBJECT_ID"` // "1998-067A"
	EpochStr           string  `json:"EPOCH"`     // ISO 8601, UTC when no zone is given
	MeanMotion         float64 `json:"MEAN_MOTION"`
	Eccentricity       float64 `json:"ECCENTRICITY"`
	Inclination        float64 `json:"INCLINATION"`
	RAOfAscNode        float64 `json:"RA_OF_ASC_NODE"`
	ArgOfPericenter    float64 `json:"ARG_OF_PERICENTER"`
	MeanAnomaly        float64 `json:"MEAN_ANOMALY"`
	EphemerisType      int     `json:"EPHEMERIS_TYPE"`
	ClassificationType string  `json:"CLASSIFICATION_TYPE"`
	NoradCatID         int     `json:"NORAD_CAT_ID"`
	ElementSetNo       int     `json:"ELEMENT_SET_NO"`
	RevAtEpoch         int     `json:"REV_AT_EPOCH"`
	BStar              float64 `json:"BSTAR"`
	MeanMotionDot      float64 `json:"MEAN_MOTION_DOT"`  // already halved, as on line 1
	MeanMotionDDot     float64 `json:"MEAN_MOTION_DDOT"` // already divided by six

	CenterName        string `json:"CENTER_NAME,omitempty"`
	RefFrame          string `json:"REF_FRAME,omitempty"`
	TimeSystem        string `json:"TIME_SYSTEM,omitempty"`
	MeanElementTheory string `json:"MEAN_ELEMENT_THEORY,omitempty"`
}

// ParseOMMs decodes a JSON array of OMM objects.
func ParseOMMs(jsonData []byte) ([]OMM, error) {
	var omms []OMM
	if err := json.Unmarshal(jsonData, &omms); err != nil {
		return nil, errors.Wrap(err, "decoding OMM JSON")
	}
	return omms, nil
}

var ommEpochLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseOMMEpoch reads an OMM epoch. Strings without a zone are UTC.
func parseOMMEpoch(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range ommEpochLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognised OMM epoch %q", s)
}

// epochDays is the TLE day of year of t: 1.0 at January 1 00:00 UTC.
func epochDays(t time.Time) float64 {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return float64(t.YearDay()) + float64(t.Sub(midnight))/float64(24*time.Hour)
}

// intlDesignator turns an OBJECT_ID such as "1998-067A" into the TLE form
// "98067A".
func intlDesignator(objectID string) (string, error) {
	year, piece, ok := strings.Cut(objectID, "-")
	if !ok || len(year) < 2 {
		return "", errors.Errorf("invalid OBJECT_ID %q, want YYYY-NNNP", objectID)
	}
	if len(piece) < 4 {
		return "", errors.Errorf("invalid OBJECT_ID %q: launch piece %q too short", objectID, piece)
	}
	return year[len(year)-2:] + piece, nil
}

// Elements converts the message into an element set. Classification
// defaults to 'U'.
func (o *OMM) Elements() (*Elements, error) {
	epoch, err := parseOMMEpoch(o.EpochStr)
	if err != nil {
		return nil, err
	}
	if epoch.Year() < 1957 || epoch.Year() >= 2057 {
		return nil, errors.Errorf("OMM epoch year %d outside the two-digit TLE range", epoch.Year())
	}
	intl, err := intlDesignator(o.ObjectID)
	if err != nil {
		return nil, err
	}
	if o.Eccentricity < 0 || o.Eccentricity >= 1 {
		return nil, errors.Errorf("OMM eccentricity %.10f outside [0, 1)", o.Eccentricity)
	}
	if o.Inclination < 0 || o.Inclination > 180 {
		return nil, errors.Errorf("OMM inclination %.4f outside [0, 180]", o.Inclination)
	}

	el := &Elements{
		SatNum:         o.NoradCatID,
		Classification: 'U',
		IntlDesignator: intl,
		EpochYear:      epoch.Year() % 100,
		EpochDays:      epochDays(epoch),
		Ndot:           o.MeanMotionDot,
		Nddot:          o.MeanMotionDDot,
		Bstar:          o.BStar,
		EphemerisType:  o.EphemerisType,
		ElementNumber:  o.ElementSetNo,
		Inclination:    o.Inclination,
		RAAN:           o.RAOfAscNode,
		Eccentricity:   o.Eccentricity,
		ArgPerigee:     o.ArgOfPericenter,
		MeanAnomaly:    o.MeanAnomaly,
		MeanMotion:     o.MeanMotion,
		RevNumber:      o.RevAtEpoch,
	}
	if o.ClassificationType != "" {
		el.Classification = o.ClassificationType[0]
	}
	return el, nil
}

// Satellite initializes a propagator from the message.
func (o *OMM) Satellite(opts ...Option) (*Satellite, error) {
	el, err := o.Elements()
	if err != nil {
		return nil, errors.Wrapf(err, "OMM %s", o.ObjectName)
	}
	sat, err := NewSatellite(*el, opts...)
	if err != nil {
		return nil, err
	}
	sat.Name = o.ObjectName
	return sat, nil
}
