package sgp4

import (
	"math"

	"github.com/soniakeys/meeus/v3/julian"
)

// Method is the propagation branch chosen at initialization.
type Method byte

const (
	NearEarth Method = 'n' // period under 225 minutes
	DeepSpace Method = 'd'
)

func (m Method) String() string {
	if m == DeepSpace {
		return "deep space"
	}
	return "near earth"
}

// Resonance flags deep-space orbits that are integrated numerically.
type Resonance int

const (
	NoResonance      Resonance = 0
	OneDayResonance  Resonance = 1 // geosynchronous
	HalfDayResonance Resonance = 2 // Molniya type, 12 hour period and e >= 0.5
)

// Satellite is an initialized element record. It is built once per element
// set and reused for every propagation. Propagate mutates the resonance
// integrator state, so one Satellite must not be propagated from several
// goroutines at once.
type Satellite struct {
	Name           string
	SatNum         int
	Classification byte
	IntlDesignator string
	ElementNumber  int
	EphemerisType  int
	EpochYear      int     // two digits
	EpochDays      float64 // day of year plus fraction
	JDSatEpoch     float64 // Julian date of the epoch

	Inclo float64 // rad
	Nodeo float64 // rad
	Ecco  float64
	Argpo float64 // rad
	Mo    float64 // rad
	No    float64 // rad/min, Brouwer mean motion after initialization
	Ndot  float64 // rad/min²
	Nddot float64 // rad/min³
	Bstar float64

	A    float64 // semi-major axis, Earth radii
	AltA float64 // apogee altitude, Earth radii
	AltP float64 // perigee altitude, Earth radii

	Method    Method
	IsImp     bool // simplified drag terms, perigee below 220 km
	Resonance Resonance
	Error     int // last propagation error code, 0 when none

	Model   GravityModel
	OpsMode OpsMode
	grav    GravityConstants

	// near earth
	aycof, con41, cc1, cc4, cc5, d2, d3, d4 float64
	delmo, eta, argpdot, omgcof, sinmao     float64
	t2cof, t3cof, t4cof, t5cof              float64
	x1mth2, x7thm1, mdot, nodedot, xlcof    float64
	xmcof, nodecf                           float64
	gsto                                    float64

	ds  deepSpaceCoeffs
	res resonanceState
}

// resonanceState is carried between calls by the resonance integrator.
type resonanceState struct {
	atime float64 // minutes since epoch of the last integrator step
	xli   float64
	xni   float64
}

// Option configures Init and NewSatellite.
type Option func(*options)

type options struct {
	model   GravityModel
	opsMode OpsMode
}

// WithGravity selects the gravity constants. The default is WGS84.
func WithGravity(m GravityModel) Option {
	return func(o *options) { o.model = m }
}

// WithOpsMode selects AFSPC compatible or improved operation. The default
// is OpsImproved.
func WithOpsMode(m OpsMode) Option {
	return func(o *options) { o.opsMode = m }
}

// Init repairs and scans the two lines of an element set and initializes
// the propagator. Scan failures return ErrLine1Parse or ErrLine2Parse;
// Code maps them to -1 and -2.
//
// A failure of the propagation to epoch performed during initialization does
// not fail Init; it is left in Satellite.Error.
func Init(line1, line2 string, opts ...Option) (*Satellite, error) {
	el, err := ScanElements(line1, line2)
	if err != nil {
		return nil, err
	}
	return NewSatellite(*el, opts...)
}

// NewSatellite initializes a propagator from elements in TLE units.
func NewSatellite(el Elements, opts ...Option) (*Satellite, error) {
	o := options{model: WGS84, opsMode: OpsImproved}
	for _, opt := range opts {
		opt(&o)
	}
	g := Gravity(o.model)

	sat := &Satellite{
		SatNum:         el.SatNum,
		Classification: el.Classification,
		IntlDesignator: el.IntlDesignator,
		ElementNumber:  el.ElementNumber,
		EphemerisType:  el.EphemerisType,
		EpochYear:      el.EpochYear,
		EpochDays:      el.EpochDays,
		Model:          o.model,
		OpsMode:        o.opsMode,
		grav:           g,
	}

	sat.No = el.MeanMotion / xpdotp
	sat.A = math.Pow(sat.No*g.Tumin, -x2o3)
	sat.Ndot = el.Ndot / (xpdotp * minutesPerDay)
	sat.Nddot = el.Nddot / (xpdotp * minutesPerDay * minutesPerDay)
	sat.Bstar = el.Bstar

	sat.Inclo = el.Inclination * deg2rad
	sat.Nodeo = el.RAAN * deg2rad
	sat.Argpo = el.ArgPerigee * deg2rad
	sat.Mo = el.MeanAnomaly * deg2rad
	sat.Ecco = el.Eccentricity

	sat.AltA = sat.A*(1+sat.Ecco) - 1
	sat.AltP = sat.A*(1-sat.Ecco) - 1

	sat.JDSatEpoch = EpochJD(el.EpochYear, el.EpochDays)

	sat.sgp4init(sat.JDSatEpoch - jd1950)
	return sat, nil
}

// EpochJD converts a two-digit year and fractional day of year to a Julian
// date.
func EpochJD(yy int, days float64) float64 {
	year := FullEpochYear(yy)
	mon, day, hr, minute, sec := days2mdhms(year, days)
	return julian.CalendarGregorianToJD(year, mon,
		float64(day)+(float64(hr)+(float64(minute)+sec/60)/60)/24)
}

type initlResult struct {
	ainv, ao, con41, con42, cosio, cosio2 float64
	eccsq, omeosq, posq, rp, rteosq       float64
	sinio, gsto                           float64
}

// initl recovers the Brouwer mean motion from the Kozai one and derives the
// orbit geometry shared by the near-earth and deep-space setup.
func (sat *Satellite) initl(epoch float64) initlResult {
	g := sat.grav
	var r initlResult

	r.eccsq = sat.Ecco * sat.Ecco
	r.omeosq = 1 - r.eccsq
	r.rteosq = math.Sqrt(r.omeosq)
	r.cosio = math.Cos(sat.Inclo)
	r.cosio2 = r.cosio * r.cosio

	ak := math.Pow(g.Xke/sat.No, x2o3)
	d1 := 0.75 * g.J2 * (3*r.cosio2 - 1) / (r.rteosq * r.omeosq)
	del := d1 / (ak * ak)
	adel := ak * (1 - del*del - del*(1.0/3.0+134*del*del/81))
	del = d1 / (adel * adel)
	sat.No /= 1 + del

	r.ao = math.Pow(g.Xke/sat.No, x2o3)
	r.sinio = math.Sin(sat.Inclo)
	po := r.ao * r.omeosq
	r.con42 = 1 - 5*r.cosio2
	r.con41 = -r.con42 - r.cosio2 - r.cosio2
	r.ainv = 1 / r.ao
	r.posq = po * po
	r.rp = r.ao * (1 - sat.Ecco)
	sat.Method = NearEarth

	if sat.OpsMode == OpsAFSPC {
		// sidereal time of the AFSPC code, referenced to 1970
		const (
			c1     = 1.72027916940703639e-2
			thgr70 = 1.7321343856509374
			fk5r   = 5.07551419432269442e-15
		)
		ts70 := epoch - 7305
		ds70 := math.Floor(ts70 + 1e-8)
		tfrac := ts70 - ds70
		c1p2p := c1 + twoPi
		r.gsto = math.Mod(thgr70+c1*ds70+c1p2p*tfrac+ts70*ts70*fk5r, twoPi)
		if r.gsto < 0 {
			r.gsto += twoPi
		}
	} else {
		r.gsto = gstime(epoch + jd1950)
	}
	return r
}

// sgp4init computes the secular and drag coefficients of the record and
// runs the propagator once at epoch. epoch is days since 1950 January 0.
func (sat *Satellite) sgp4init(epoch float64) {
	g := sat.grav
	const temp4 = 1.5e-12

	ss := 78/g.RadiusEarthKm + 1
	qzms2t := math.Pow((120-78)/g.RadiusEarthKm, 4)

	in := sat.initl(epoch)
	sat.con41 = in.con41
	sat.gsto = in.gsto
	sat.Error = 0

	sat.IsImp = in.rp < 220/g.RadiusEarthKm+1

	sfour := ss
	qzms24 := qzms2t
	perige := (in.rp - 1) * g.RadiusEarthKm
	if perige < 156 {
		sfour = perige - 78
		if perige < 98 {
			sfour = 20
		}
		qzms24 = math.Pow((120-sfour)/g.RadiusEarthKm, 4)
		sfour = sfour/g.RadiusEarthKm + 1
	}

	pinvsq := 1 / in.posq
	tsi := 1 / (in.ao - sfour)
	sat.eta = in.ao * sat.Ecco * tsi
	etasq := sat.eta * sat.eta
	eeta := sat.Ecco * sat.eta
	psisq := math.Abs(1 - etasq)
	coef := qzms24 * math.Pow(tsi, 4)
	coef1 := coef / math.Pow(psisq, 3.5)
	cc2 := coef1 * sat.No * (in.ao*(1+1.5*etasq+eeta*(4+etasq)) +
		0.375*g.J2*tsi/psisq*in.con41*(8+3*etasq*(8+etasq)))
	sat.cc1 = sat.Bstar * cc2
	cc3 := 0.0
	if sat.Ecco > 1e-4 {
		cc3 = -2 * coef * tsi * g.J3oJ2 * sat.No * in.sinio / sat.Ecco
	}
	sat.x1mth2 = 1 - in.cosio2
	sat.cc4 = 2 * sat.No * coef1 * in.ao * in.omeosq *
		(sat.eta*(2+0.5*etasq) + sat.Ecco*(0.5+2*etasq) -
			g.J2*tsi/(in.ao*psisq)*
				(-3*in.con41*(1-2*eeta+etasq*(1.5-0.5*eeta))+
					0.75*sat.x1mth2*(2*etasq-eeta*(1+etasq))*math.Cos(2*sat.Argpo)))
	sat.cc5 = 2 * coef1 * in.ao * in.omeosq * (1 + 2.75*(etasq+eeta) + eeta*etasq)

	cosio4 := in.cosio2 * in.cosio2
	temp1 := 1.5 * g.J2 * pinvsq * sat.No
	temp2 := 0.5 * temp1 * g.J2 * pinvsq
	temp3 := -0.46875 * g.J4 * pinvsq * pinvsq * sat.No
	sat.mdot = sat.No + 0.5*temp1*in.rteosq*in.con41 +
		0.0625*temp2*in.rteosq*(13-78*in.cosio2+137*cosio4)
	sat.argpdot = -0.5*temp1*in.con42 + 0.0625*temp2*(7-114*in.cosio2+395*cosio4) +
		temp3*(3-36*in.cosio2+49*cosio4)
	xhdot1 := -temp1 * in.cosio
	sat.nodedot = xhdot1 + (0.5*temp2*(4-19*in.cosio2)+2*temp3*(3-7*in.cosio2))*in.cosio
	xpidot := sat.argpdot + sat.nodedot
	sat.omgcof = sat.Bstar * cc3 * math.Cos(sat.Argpo)
	sat.xmcof = 0
	if sat.Ecco > 1e-4 {
		sat.xmcof = -x2o3 * coef * sat.Bstar / eeta
	}
	sat.nodecf = 3.5 * in.omeosq * xhdot1 * sat.cc1
	sat.t2cof = 1.5 * sat.cc1
	if math.Abs(in.cosio+1) > 1.5e-12 {
		sat.xlcof = -0.25 * g.J3oJ2 * in.sinio * (3 + 5*in.cosio) / (1 + in.cosio)
	} else {
		sat.xlcof = -0.25 * g.J3oJ2 * in.sinio * (3 + 5*in.cosio) / temp4
	}
	sat.aycof = -0.5 * g.J3oJ2 * in.sinio
	sat.delmo = math.Pow(1+sat.eta*math.Cos(sat.Mo), 3)
	sat.sinmao = math.Sin(sat.Mo)
	sat.x7thm1 = 7*in.cosio2 - 1

	if twoPi/sat.No >= 225 {
		sat.Method = DeepSpace
		sat.IsImp = true
		sc := dscom(epoch, sat.Ecco, sat.Argpo, 0, sat.Inclo, sat.Nodeo, sat.No)
		sat.ds.setPeriodics(&sc)
		sat.dsinit(&sc, xpidot, in.eccsq)
	}

	if !sat.IsImp {
		cc1sq := sat.cc1 * sat.cc1
		sat.d2 = 4 * in.ao * tsi * cc1sq
		temp := sat.d2 * tsi * sat.cc1 / 3
		sat.d3 = (17*in.ao + sfour) * temp
		sat.d4 = 0.5 * temp * in.ao * tsi * (221*in.ao + 31*sfour) * sat.cc1
		sat.t3cof = sat.d2 + 2*cc1sq
		sat.t4cof = 0.25 * (3*sat.d3 + sat.cc1*(12*sat.d2+10*cc1sq))
		sat.t5cof = 0.2 * (3*sat.d4 + 12*sat.cc1*sat.d3 + 6*sat.d2*sat.d2 +
			15*cc1sq*(2*sat.d2+cc1sq))
	}

	if _, _, err := sat.sgp4(0); err != nil {
		sat.Error = errorCode(err)
	}
}
