package sgp4

import "math"

// Deep-space (SDP4) part of the propagator: lunar and solar secular rates and
// periodics, and the numerically integrated 12 and 24 hour resonances.

// solar and lunar eccentricities and mean motions (rad/min)
const (
	zes = 0.01675
	zel = 0.05490
	zns = 1.19459e-5
	znl = 1.5835218e-4

	rptim = 4.37526908801129966e-3 // Earth rotation, rad/min
)

// meanState is the set of mean elements the secular and periodic terms act on.
type meanState struct {
	e, incl, node, argp, m, n float64
}

// deepSpaceCoeffs holds the lunar-solar terms computed at initialization.
type deepSpaceCoeffs struct {
	// periodics
	e3, ee2, peo, pgho, pho, pinco, plo                 float64
	se2, se3, sgh2, sgh3, sgh4, sh2, sh3, si2, si3      float64
	sl2, sl3, sl4                                       float64
	xgh2, xgh3, xgh4, xh2, xh3, xi2, xi3, xl2, xl3, xl4 float64
	zmol, zmos                                          float64

	// secular rates
	dedt, didt, dmdt, dnodt, domdt float64

	// resonance
	d2201, d2211, d3210, d3222, d4410 float64
	d4422, d5220, d5232, d5421, d5433 float64
	del1, del2, del3                  float64
	xfact, xlamo                      float64
}

// dscomResult is everything dscom derives for the initialization.
type dscomResult struct {
	snodm, cnodm, sinim, cosim, sinomm, cosomm float64
	day, em, emsq, gam, rtemsq, nm             float64

	e3, ee2, peo, pgho, pho, pinco, plo                 float64
	se2, se3, sgh2, sgh3, sgh4, sh2, sh3, si2, si3      float64
	sl2, sl3, sl4                                       float64
	xgh2, xgh3, xgh4, xh2, xh3, xi2, xi3, xl2, xl3, xl4 float64
	zmol, zmos                                          float64

	s1, s2, s3, s4, s5, s6, s7         float64
	ss1, ss2, ss3, ss4, ss5, ss6, ss7  float64
	z1, z2, z3, z11, z12, z13          float64
	z21, z22, z23, z31, z32, z33       float64
	sz1, sz2, sz3, sz11, sz12, sz13    float64
	sz21, sz22, sz23, sz31, sz32, sz33 float64
}

func (ds *deepSpaceCoeffs) setPeriodics(c *dscomResult) {
	ds.e3, ds.ee2 = c.e3, c.ee2
	ds.peo, ds.pgho, ds.pho, ds.pinco, ds.plo = c.peo, c.pgho, c.pho, c.pinco, c.plo
	ds.se2, ds.se3 = c.se2, c.se3
	ds.sgh2, ds.sgh3, ds.sgh4 = c.sgh2, c.sgh3, c.sgh4
	ds.sh2, ds.sh3 = c.sh2, c.sh3
	ds.si2, ds.si3 = c.si2, c.si3
	ds.sl2, ds.sl3, ds.sl4 = c.sl2, c.sl3, c.sl4
	ds.xgh2, ds.xgh3, ds.xgh4 = c.xgh2, c.xgh3, c.xgh4
	ds.xh2, ds.xh3 = c.xh2, c.xh3
	ds.xi2, ds.xi3 = c.xi2, c.xi3
	ds.xl2, ds.xl3, ds.xl4 = c.xl2, c.xl3, c.xl4
	ds.zmol, ds.zmos = c.zmol, c.zmos
}

// dscom computes the lunar and solar terms for the elements at epoch.
// epoch is days since 1950 January 0, tc minutes since epoch.
func dscom(epoch, ep, argpp, tc, inclp, nodep, np float64) dscomResult {
	const (
		c1ss   = 2.9864797e-6
		c1l    = 4.7968065e-7
		zsinis = 0.39785416
		zcosis = 0.91744867
		zcosgs = 0.1945905
		zsings = -0.98088458
	)
	var r dscomResult

	r.nm = np
	r.em = ep
	r.snodm = math.Sin(nodep)
	r.cnodm = math.Cos(nodep)
	r.sinomm = math.Sin(argpp)
	r.cosomm = math.Cos(argpp)
	r.sinim = math.Sin(inclp)
	r.cosim = math.Cos(inclp)
	r.emsq = r.em * r.em
	betasq := 1 - r.emsq
	r.rtemsq = math.Sqrt(betasq)

	r.day = epoch + 18261.5 + tc/1440
	xnodce := math.Mod(4.5236020-9.2422029e-4*r.day, twoPi)
	stem := math.Sin(xnodce)
	ctem := math.Cos(xnodce)
	zcosil := 0.91375164 - 0.03568096*ctem
	zsinil := math.Sqrt(1 - zcosil*zcosil)
	zsinhl := 0.089683511 * stem / zsinil
	zcoshl := math.Sqrt(1 - zsinhl*zsinhl)
	r.gam = 5.8351514 + 0.0019443680*r.day
	zx := 0.39785416 * stem / zsinil
	zy := zcoshl*ctem + 0.91744867*zsinhl*stem
	zx = math.Atan2(zx, zy)
	zx = r.gam + zx - xnodce
	zcosgl := math.Cos(zx)
	zsingl := math.Sin(zx)

	// first pass solar, second pass lunar
	zcosg, zsing := zcosgs, zsings
	zcosi, zsini := zcosis, zsinis
	zcosh, zsinh := r.cnodm, r.snodm
	cc := c1ss
	xnoi := 1 / r.nm

	for lsflg := 1; lsflg <= 2; lsflg++ {
		a1 := zcosg*zcosh + zsing*zcosi*zsinh
		a3 := -zsing*zcosh + zcosg*zcosi*zsinh
		a7 := -zcosg*zsinh + zsing*zcosi*zcosh
		a8 := zsing * zsini
		a9 := zsing*zsinh + zcosg*zcosi*zcosh
		a10 := zcosg * zsini
		a2 := r.cosim*a7 + r.sinim*a8
		a4 := r.cosim*a9 + r.sinim*a10
		a5 := -r.sinim*a7 + r.cosim*a8
		a6 := -r.sinim*a9 + r.cosim*a10

		x1 := a1*r.cosomm + a2*r.sinomm
		x2 := a3*r.cosomm + a4*r.sinomm
		x3 := -a1*r.sinomm + a2*r.cosomm
		x4 := -a3*r.sinomm + a4*r.cosomm
		x5 := a5 * r.sinomm
		x6 := a6 * r.sinomm
		x7 := a5 * r.cosomm
		x8 := a6 * r.cosomm

		r.z31 = 12*x1*x1 - 3*x3*x3
		r.z32 = 24*x1*x2 - 6*x3*x4
		r.z33 = 12*x2*x2 - 3*x4*x4
		r.z1 = 3*(a1*a1+a2*a2) + r.z31*r.emsq
		r.z2 = 6*(a1*a3+a2*a4) + r.z32*r.emsq
		r.z3 = 3*(a3*a3+a4*a4) + r.z33*r.emsq
		r.z11 = -6*a1*a5 + r.emsq*(-24*x1*x7-6*x3*x5)
		r.z12 = -6*(a1*a6+a3*a5) + r.emsq*(-24*(x2*x7+x1*x8)-6*(x3*x6+x4*x5))
		r.z13 = -6*a3*a6 + r.emsq*(-24*x2*x8-6*x4*x6)
		r.z21 = 6*a2*a5 + r.emsq*(24*x1*x5-6*x3*x7)
		r.z22 = 6*(a4*a5+a2*a6) + r.emsq*(24*(x2*x5+x1*x6)-6*(x4*x7+x3*x8))
		r.z23 = 6*a4*a6 + r.emsq*(24*x2*x6-6*x4*x8)
		r.z1 = r.z1 + r.z1 + betasq*r.z31
		r.z2 = r.z2 + r.z2 + betasq*r.z32
		r.z3 = r.z3 + r.z3 + betasq*r.z33
		r.s3 = cc * xnoi
		r.s2 = -0.5 * r.s3 / r.rtemsq
		r.s4 = r.s3 * r.rtemsq
		r.s1 = -15 * r.em * r.s4
		r.s5 = x1*x3 + x2*x4
		r.s6 = x2*x3 + x1*x4
		r.s7 = x2*x4 - x1*x3

		if lsflg == 1 {
			r.ss1, r.ss2, r.ss3, r.ss4 = r.s1, r.s2, r.s3, r.s4
			r.ss5, r.ss6, r.ss7 = r.s5, r.s6, r.s7
			r.sz1, r.sz2, r.sz3 = r.z1, r.z2, r.z3
			r.sz11, r.sz12, r.sz13 = r.z11, r.z12, r.z13
			r.sz21, r.sz22, r.sz23 = r.z21, r.z22, r.z23
			r.sz31, r.sz32, r.sz33 = r.z31, r.z32, r.z33
			zcosg, zsing = zcosgl, zsingl
			zcosi, zsini = zcosil, zsinil
			zcosh = zcoshl*r.cnodm + zsinhl*r.snodm
			zsinh = r.snodm*zcoshl - r.cnodm*zsinhl
			cc = c1l
		}
	}

	r.zmol = math.Mod(4.7199672+0.22997150*r.day-r.gam, twoPi)
	r.zmos = math.Mod(6.2565837+0.017201977*r.day, twoPi)

	// solar
	r.se2 = 2 * r.ss1 * r.ss6
	r.se3 = 2 * r.ss1 * r.ss7
	r.si2 = 2 * r.ss2 * r.sz12
	r.si3 = 2 * r.ss2 * (r.sz13 - r.sz11)
	r.sl2 = -2 * r.ss3 * r.sz2
	r.sl3 = -2 * r.ss3 * (r.sz3 - r.sz1)
	r.sl4 = -2 * r.ss3 * (-21 - 9*r.emsq) * zes
	r.sgh2 = 2 * r.ss4 * r.sz32
	r.sgh3 = 2 * r.ss4 * (r.sz33 - r.sz31)
	r.sgh4 = -18 * r.ss4 * zes
	r.sh2 = -2 * r.ss2 * r.sz22
	r.sh3 = -2 * r.ss2 * (r.sz23 - r.sz21)

	// lunar
	r.ee2 = 2 * r.s1 * r.s6
	r.e3 = 2 * r.s1 * r.s7
	r.xi2 = 2 * r.s2 * r.z12
	r.xi3 = 2 * r.s2 * (r.z13 - r.z11)
	r.xl2 = -2 * r.s3 * r.z2
	r.xl3 = -2 * r.s3 * (r.z3 - r.z1)
	r.xl4 = -2 * r.s3 * (-21 - 9*r.emsq) * zel
	r.xgh2 = 2 * r.s4 * r.z32
	r.xgh3 = 2 * r.s4 * (r.z33 - r.z31)
	r.xgh4 = -18 * r.s4 * zel
	r.xh2 = -2 * r.s2 * r.z22
	r.xh3 = -2 * r.s2 * (r.z23 - r.z21)

	return r
}

// dpper adds the lunar-solar periodics at t minutes since epoch to p.
// Below 0.2 rad of inclination the Lyddane modification is used.
func (ds *deepSpaceCoeffs) dpper(t float64, opsMode OpsMode, p *meanState) {
	zm := ds.zmos + zns*t
	zf := zm + 2*zes*math.Sin(zm)
	sinzf := math.Sin(zf)
	f2 := 0.5*sinzf*sinzf - 0.25
	f3 := -0.5 * sinzf * math.Cos(zf)
	ses := ds.se2*f2 + ds.se3*f3
	sis := ds.si2*f2 + ds.si3*f3
	sls := ds.sl2*f2 + ds.sl3*f3 + ds.sl4*sinzf
	sghs := ds.sgh2*f2 + ds.sgh3*f3 + ds.sgh4*sinzf
	shs := ds.sh2*f2 + ds.sh3*f3

	zm = ds.zmol + znl*t
	zf = zm + 2*zel*math.Sin(zm)
	sinzf = math.Sin(zf)
	f2 = 0.5*sinzf*sinzf - 0.25
	f3 = -0.5 * sinzf * math.Cos(zf)
	sel := ds.ee2*f2 + ds.e3*f3
	sil := ds.xi2*f2 + ds.xi3*f3
	sll := ds.xl2*f2 + ds.xl3*f3 + ds.xl4*sinzf
	sghl := ds.xgh2*f2 + ds.xgh3*f3 + ds.xgh4*sinzf
	shll := ds.xh2*f2 + ds.xh3*f3

	pe := ses + sel - ds.peo
	pinc := sis + sil - ds.pinco
	pl := sls + sll - ds.plo
	pgh := sghs + sghl - ds.pgho
	ph := shs + shll - ds.pho

	p.incl += pinc
	p.e += pe
	sinip := math.Sin(p.incl)
	cosip := math.Cos(p.incl)

	if p.incl >= 0.2 {
		ph /= sinip
		pgh -= cosip * ph
		p.argp += pgh
		p.node += ph
		p.m += pl
		return
	}

	sinop := math.Sin(p.node)
	cosop := math.Cos(p.node)
	alfdp := sinip * sinop
	betdp := sinip * cosop
	dalf := ph*cosop + pinc*cosip*sinop
	dbet := -ph*sinop + pinc*cosip*cosop
	alfdp += dalf
	betdp += dbet
	p.node = math.Mod(p.node, twoPi)
	if p.node < 0 && opsMode == OpsAFSPC {
		p.node += twoPi
	}
	xls := p.m + p.argp + cosip*p.node
	dls := pl + pgh - pinc*p.node*sinip
	xls += dls
	xnoh := p.node
	p.node = math.Atan2(alfdp, betdp)
	if p.node < 0 && opsMode == OpsAFSPC {
		p.node += twoPi
	}
	if math.Abs(xnoh-p.node) > math.Pi {
		if p.node < xnoh {
			p.node += twoPi
		} else {
			p.node -= twoPi
		}
	}
	p.m += pl
	p.argp = xls - p.m - cosip*p.node
}

// dsinit sets the deep-space secular rates and, for resonant orbits, the
// resonance coefficients and the integrator start state.
func (sat *Satellite) dsinit(c *dscomResult, xpidot, eccsq float64) {
	const (
		q22    = 1.7891679e-6
		q31    = 2.1460748e-6
		q33    = 2.2123015e-7
		root22 = 1.7891679e-6
		root44 = 7.3636953e-9
		root54 = 2.1765803e-9
		root32 = 3.7393792e-7
		root52 = 1.1428639e-7
	)
	ds := &sat.ds
	nm, em, emsq := c.nm, c.em, c.emsq
	inclm := sat.Inclo

	sat.Resonance = NoResonance
	if nm < 0.0052359877 && nm > 0.0034906585 {
		sat.Resonance = OneDayResonance
	}
	if nm >= 8.26e-3 && nm <= 9.24e-3 && em >= 0.5 {
		sat.Resonance = HalfDayResonance
	}

	// solar
	ses := c.ss1 * zns * c.ss5
	sis := c.ss2 * zns * (c.sz11 + c.sz13)
	sls := -zns * c.ss3 * (c.sz1 + c.sz3 - 14 - 6*emsq)
	sghs := c.ss4 * zns * (c.sz31 + c.sz33 - 6)
	shs := -zns * c.ss2 * (c.sz21 + c.sz23)
	if inclm < 5.2359877e-2 || inclm > math.Pi-5.2359877e-2 {
		shs = 0
	}
	if c.sinim != 0 {
		shs /= c.sinim
	}
	sgs := sghs - c.cosim*shs

	// lunar
	ds.dedt = ses + c.s1*znl*c.s5
	ds.didt = sis + c.s2*znl*(c.z11+c.z13)
	ds.dmdt = sls - znl*c.s3*(c.z1+c.z3-14-6*emsq)
	sghl := c.s4 * znl * (c.z31 + c.z33 - 6)
	shll := -znl * c.s2 * (c.z21 + c.z23)
	if inclm < 5.2359877e-2 || inclm > math.Pi-5.2359877e-2 {
		shll = 0
	}
	ds.domdt = sgs + sghl
	ds.dnodt = shs
	if c.sinim != 0 {
		ds.domdt -= c.cosim / c.sinim * shll
		ds.dnodt += shll / c.sinim
	}

	if sat.Resonance == NoResonance {
		return
	}

	theta := math.Mod(sat.gsto, twoPi)
	aonv := math.Pow(nm/sat.grav.Xke, x2o3)

	if sat.Resonance == HalfDayResonance {
		cosisq := c.cosim * c.cosim
		em = sat.Ecco
		emsq = eccsq
		eoc := em * emsq
		g201 := -0.306 - (em-0.64)*0.440

		var g211, g310, g322, g410, g422, g520, g521, g532, g533 float64
		if em <= 0.65 {
			g211 = 3.616 - 13.2470*em + 16.2900*emsq
			g310 = -19.302 + 117.3900*em - 228.4190*emsq + 156.5910*eoc
			g322 = -18.9068 + 109.7927*em - 214.6334*emsq + 146.5816*eoc
			g410 = -41.122 + 242.6940*em - 471.0940*emsq + 313.9530*eoc
			g422 = -146.407 + 841.8800*em - 1629.014*emsq + 1083.4350*eoc
			g520 = -532.114 + 3017.977*em - 5740.032*emsq + 3708.2760*eoc
		} else {
			g211 = -72.099 + 331.819*em - 508.738*emsq + 266.724*eoc
			g310 = -346.844 + 1582.851*em - 2415.925*emsq + 1246.113*eoc
			g322 = -342.585 + 1554.908*em - 2366.899*emsq + 1215.972*eoc
			g410 = -1052.797 + 4758.686*em - 7193.992*emsq + 3651.957*eoc
			g422 = -3581.690 + 16178.110*em - 24462.770*emsq + 12422.520*eoc
			if em > 0.715 {
				g520 = -5149.66 + 29936.92*em - 54087.36*emsq + 31324.56*eoc
			} else {
				g520 = 1464.74 - 4664.75*em + 3763.64*emsq
			}
		}
		if em < 0.7 {
			g533 = -919.22770 + 4988.6100*em - 9064.7700*emsq + 5542.21*eoc
			g521 = -822.71072 + 4568.6173*em - 8491.4146*emsq + 5337.524*eoc
			g532 = -853.66600 + 4690.2500*em - 8624.7700*emsq + 5341.4*eoc
		} else {
			g533 = -37995.780 + 161616.52*em - 229838.20*emsq + 109377.94*eoc
			g521 = -51752.104 + 218913.95*em - 309468.16*emsq + 146349.42*eoc
			g532 = -40023.880 + 170470.89*em - 242699.48*emsq + 115605.82*eoc
		}

		sinim := c.sinim
		cosim := c.cosim
		sini2 := sinim * sinim
		f220 := 0.75 * (1 + 2*cosim + cosisq)
		f221 := 1.5 * sini2
		f321 := 1.875 * sinim * (1 - 2*cosim - 3*cosisq)
		f322 := -1.875 * sinim * (1 + 2*cosim - 3*cosisq)
		f441 := 35 * sini2 * f220
		f442 := 39.3750 * sini2 * sini2
		f522 := 9.84375 * sinim * (sini2*(1-2*cosim-5*cosisq) +
			0.33333333*(-2+4*cosim+6*cosisq))
		f523 := sinim * (4.92187512*sini2*(-2-4*cosim+10*cosisq) +
			6.56250012*(1+2*cosim-3*cosisq))
		f542 := 29.53125 * sinim * (2 - 8*cosim + cosisq*(-12+8*cosim+10*cosisq))
		f543 := 29.53125 * sinim * (-2 - 8*cosim + cosisq*(12+8*cosim-10*cosisq))

		xno2 := nm * nm
		ainv2 := aonv * aonv
		temp1 := 3 * xno2 * ainv2
		temp := temp1 * root22
		ds.d2201 = temp * f220 * g201
		ds.d2211 = temp * f221 * g211
		temp1 *= aonv
		temp = temp1 * root32
		ds.d3210 = temp * f321 * g310
		ds.d3222 = temp * f322 * g322
		temp1 *= aonv
		temp = 2 * temp1 * root44
		ds.d4410 = temp * f441 * g410
		ds.d4422 = temp * f442 * g422
		temp1 *= aonv
		temp = temp1 * root52
		ds.d5220 = temp * f522 * g520
		ds.d5232 = temp * f523 * g532
		temp = 2 * temp1 * root54
		ds.d5421 = temp * f542 * g521
		ds.d5433 = temp * f543 * g533
		ds.xlamo = math.Mod(sat.Mo+sat.Nodeo+sat.Nodeo-theta-theta, twoPi)
		ds.xfact = sat.mdot + ds.dmdt + 2*(sat.nodedot+ds.dnodt-rptim) - sat.No
	}

	if sat.Resonance == OneDayResonance {
		g200 := 1 + emsq*(-2.5+0.8125*emsq)
		g310 := 1 + 2*emsq
		g300 := 1 + emsq*(-6+6.60937*emsq)
		f220 := 0.75 * (1 + c.cosim) * (1 + c.cosim)
		f311 := 0.9375*c.sinim*c.sinim*(1+3*c.cosim) - 0.75*(1+c.cosim)
		f330 := 1 + c.cosim
		f330 = 1.875 * f330 * f330 * f330
		ds.del1 = 3 * nm * nm * aonv * aonv
		ds.del2 = 2 * ds.del1 * f220 * g200 * q22
		ds.del3 = 3 * ds.del1 * f330 * g300 * q33 * aonv
		ds.del1 = ds.del1 * f311 * g310 * q31 * aonv
		ds.xlamo = math.Mod(sat.Mo+sat.Nodeo+sat.Argpo-theta, twoPi)
		ds.xfact = sat.mdot + xpidot - rptim + ds.dmdt + ds.domdt + ds.dnodt - sat.No
	}

	sat.res = resonanceState{atime: 0, xli: ds.xlamo, xni: sat.No}
}

// dspace applies the deep-space secular rates at t minutes since epoch and,
// for resonant orbits, integrates mean motion and longitude in 720 minute
// steps. The integrator restarts from epoch when t lies on the other side of
// epoch or closer to it than the carried state.
func (sat *Satellite) dspace(t float64, s *meanState) {
	const (
		fasx2 = 0.13130908
		fasx4 = 2.8843198
		fasx6 = 0.37448087
		g22   = 5.7686396
		g32   = 0.95240898
		g44   = 1.8014998
		g52   = 1.0508330
		g54   = 4.4108898
		stepp = 720.0
		stepn = -720.0
		step2 = 259200.0
	)
	ds := &sat.ds

	theta := math.Mod(sat.gsto+t*rptim, twoPi)
	s.e += ds.dedt * t
	s.incl += ds.didt * t
	s.argp += ds.domdt * t
	s.node += ds.dnodt * t
	s.m += ds.dmdt * t

	if sat.Resonance == NoResonance {
		return
	}

	rs := &sat.res
	if rs.atime == 0 || t*rs.atime <= 0 || math.Abs(t) < math.Abs(rs.atime) {
		rs.atime = 0
		rs.xni = sat.No
		rs.xli = ds.xlamo
	}
	delt := stepn
	if t > 0 {
		delt = stepp
	}

	var xndt, xldot, xnddt, ft float64
	for {
		if sat.Resonance != HalfDayResonance {
			xndt = ds.del1*math.Sin(rs.xli-fasx2) + ds.del2*math.Sin(2*(rs.xli-fasx4)) +
				ds.del3*math.Sin(3*(rs.xli-fasx6))
			xldot = rs.xni + ds.xfact
			xnddt = ds.del1*math.Cos(rs.xli-fasx2) + 2*ds.del2*math.Cos(2*(rs.xli-fasx4)) +
				3*ds.del3*math.Cos(3*(rs.xli-fasx6))
			xnddt *= xldot
		} else {
			xomi := sat.Argpo + sat.argpdot*rs.atime
			x2omi := xomi + xomi
			x2li := rs.xli + rs.xli
			xndt = ds.d2201*math.Sin(x2omi+rs.xli-g22) + ds.d2211*math.Sin(rs.xli-g22) +
				ds.d3210*math.Sin(xomi+rs.xli-g32) + ds.d3222*math.Sin(-xomi+rs.xli-g32) +
				ds.d4410*math.Sin(x2omi+x2li-g44) + ds.d4422*math.Sin(x2li-g44) +
				ds.d5220*math.Sin(xomi+rs.xli-g52) + ds.d5232*math.Sin(-xomi+rs.xli-g52) +
				ds.d5421*math.Sin(xomi+x2li-g54) + ds.d5433*math.Sin(-xomi+x2li-g54)
			xldot = rs.xni + ds.xfact
			xnddt = ds.d2201*math.Cos(x2omi+rs.xli-g22) + ds.d2211*math.Cos(rs.xli-g22) +
				ds.d3210*math.Cos(xomi+rs.xli-g32) + ds.d3222*math.Cos(-xomi+rs.xli-g32) +
				ds.d5220*math.Cos(xomi+rs.xli-g52) + ds.d5232*math.Cos(-xomi+rs.xli-g52) +
				2*(ds.d4410*math.Cos(x2omi+x2li-g44)+ds.d4422*math.Cos(x2li-g44)+
					ds.d5421*math.Cos(xomi+x2li-g54)+ds.d5433*math.Cos(-xomi+x2li-g54))
			xnddt *= xldot
		}

		if math.Abs(t-rs.atime) < stepp {
			ft = t - rs.atime
			break
		}
		rs.xli += xldot*delt + xndt*step2
		rs.xni += xndt*delt + xnddt*step2
		rs.atime += delt
	}

	s.n = rs.xni + xndt*ft + xnddt*ft*ft*0.5
	xl := rs.xli + xldot*ft + xndt*ft*ft*0.5
	if sat.Resonance != OneDayResonance {
		s.m = xl - 2*s.node + 2*theta
	} else {
		s.m = xl - s.node - s.argp + theta
	}
}
