package fluid

import "math"

// IAPWS Industrial Formulation 1997, regions 1, 2 and 4 and the 2/3 boundary.
// Pressures in Pa, temperatures in K.

const (
	rWater   = 461.526 // specific gas constant [J/(kg·K)]
	tcWater  = 647.096
	pcWater  = 22.064e6
	rhoWater = 322.0

	tMinWater = 273.15
	tMaxWater = 1073.15
	pMaxWater = 100e6

	// upper temperature of region 1 and its saturation pressure
	t13Water = 623.15
	p13Water = 16.5291642526e6

	// saturation pressure at tMinWater
	pSatMinWater = 611.212677
)

type term struct {
	I, J int
	n    float64
}

var region1 = []term{
	{0, -2, 0.14632971213167}, {0, -1, -0.84548187169114}, {0, 0, -0.37563603672040e1},
	{0, 1, 0.33855169168385e1}, {0, 2, -0.95791963387872}, {0, 3, 0.15772038513228},
	{0, 4, -0.16616417199501e-1}, {0, 5, 0.81214629983568e-3}, {1, -9, 0.28319080123804e-3},
	{1, -7, -0.60706301565874e-3}, {1, -1, -0.18990068218419e-1}, {1, 0, -0.32529748770505e-1},
	{1, 1, -0.21841717175414e-1}, {1, 3, -0.52838357969930e-4}, {2, -3, -0.47184321073267e-3},
	{2, 0, -0.30001780793026e-3}, {2, 1, 0.47661393906987e-4}, {2, 3, -0.44141845330846e-5},
	{2, 17, -0.72694996297594e-15}, {3, -4, -0.31679644845054e-4}, {3, 0, -0.28270797985312e-5},
	{3, 6, -0.85205128120103e-9}, {4, -5, -0.22425281908000e-5}, {4, -2, -0.65171222895601e-6},
	{4, 10, -0.14341729937924e-12}, {5, -8, -0.40516996860117e-6}, {8, -11, -0.12734301741641e-8},
	{8, -6, -0.17424871230634e-9}, {21, -29, -0.68762131295531e-18}, {23, -31, 0.14478307828521e-19},
	{29, -38, 0.26335781662795e-22}, {30, -39, -0.11947622640071e-22}, {31, -40, 0.18228094581404e-23},
	{32, -41, -0.93537087292458e-25},
}

var region2Ideal = []term{
	{0, 0, -0.96927686500217e1}, {0, 1, 0.10086655968018e2}, {0, -5, -0.56087911283020e-2},
	{0, -4, 0.71452738081455e-1}, {0, -3, -0.40710498223928}, {0, -2, 0.14240819171444e1},
	{0, -1, -0.43839511319450e1}, {0, 2, -0.28408632460772}, {0, 3, 0.21268463753307e-1},
}

var region2Residual = []term{
	{1, 0, -0.17731742473213e-2}, {1, 1, -0.17834862292358e-1}, {1, 2, -0.45996013696365e-1},
	{1, 3, -0.57581259083432e-1}, {1, 6, -0.50325278727930e-1}, {2, 1, -0.33032641670203e-4},
	{2, 2, -0.18948987516315e-3}, {2, 4, -0.39392777243355e-2}, {2, 7, -0.43797295650573e-1},
	{2, 36, -0.26674547914087e-4}, {3, 0, 0.20481737692309e-7}, {3, 1, 0.43870667284435e-6},
	{3, 3, -0.32277677238570e-4}, {3, 6, -0.15033924542148e-2}, {3, 35, -0.40668253562649e-1},
	{4, 1, -0.78847309559367e-9}, {4, 2, 0.12790717852285e-7}, {4, 3, 0.48225372718507e-6},
	{5, 7, 0.22922076337661e-5}, {6, 3, -0.16714766451061e-10}, {6, 16, -0.21171472321355e-2},
	{6, 35, -0.23895741934104e2}, {7, 0, -0.59059564324270e-17}, {7, 11, -0.12621808899101e-5},
	{7, 25, -0.38946842435739e-1}, {8, 8, 0.11256211360459e-10}, {8, 36, -0.82311340897998e1},
	{9, 13, 0.19809712802088e-7}, {10, 4, 0.10406965210174e-18}, {10, 10, -0.10234747095929e-12},
	{10, 14, -0.10018179379511e-8}, {16, 29, -0.80882908646985e-10}, {16, 50, 0.10693031879409},
	{18, 57, -0.33662250574171}, {20, 20, 0.89185845355421e-24}, {20, 35, 0.30629316876232e-12},
	{20, 48, -0.42002467698208e-5}, {21, 21, -0.59056029685639e-25}, {22, 53, 0.37826947613457e-5},
	{23, 39, -0.12768608934681e-14}, {24, 26, 0.73087610595061e-28}, {24, 40, 0.55414715350778e-16},
	{24, 58, -0.94369707241210e-6},
}

var region4 = [10]float64{
	0.11670521452767e4, -0.72421316703206e6, -0.17073846940092e2, 0.12020824702470e5,
	-0.32325550322333e7, 0.14915108613530e2, -0.48232657361591e4, 0.40511340542057e6,
	-0.23855557567849, 0.65017534844798e3,
}

var b23 = [5]float64{
	0.34805185628969e3, -0.11671859879975e1, 0.10192970039326e-2,
	0.57254459862746e3, 0.13918839778870e2,
}

// props is a single phase point of a Gibbs formulation
type props struct {
	v, h, s, cp float64
}

// powi returns x**n for integer n
func powi(x float64, n int) float64 {
	if n < 0 {
		return 1 / powi(x, -n)
	}
	r := 1.0
	for n > 0 {
		if n&1 == 1 {
			r *= x
		}
		x *= x
		n >>= 1
	}
	return r
}

// gibbs1 returns liquid water properties (region 1)
func gibbs1(p, T float64) props {
	pi, tau := p/16.53e6, 1386.0/T
	a, b := 7.1-pi, tau-1.222
	var g, gp, gt, gtt float64
	for _, c := range region1 {
		aI, bJ := powi(a, c.I), powi(b, c.J)
		g += c.n * aI * bJ
		gp -= c.n * float64(c.I) * powi(a, c.I-1) * bJ
		gt += c.n * aI * float64(c.J) * powi(b, c.J-1)
		gtt += c.n * aI * float64(c.J*(c.J-1)) * powi(b, c.J-2)
	}
	return props{
		v:  rWater * T / p * pi * gp,
		h:  rWater * T * tau * gt,
		s:  rWater * (tau*gt - g),
		cp: -rWater * tau * tau * gtt,
	}
}

// gibbs2 returns steam properties (region 2)
func gibbs2(p, T float64) props {
	pi, tau := p/1e6, 540.0/T
	g0, g0t, g0tt := math.Log(pi), 0.0, 0.0
	for _, c := range region2Ideal {
		g0 += c.n * powi(tau, c.J)
		g0t += c.n * float64(c.J) * powi(tau, c.J-1)
		g0tt += c.n * float64(c.J*(c.J-1)) * powi(tau, c.J-2)
	}
	b := tau - 0.5
	var gr, grp, grt, grtt float64
	for _, c := range region2Residual {
		pI, bJ := powi(pi, c.I), powi(b, c.J)
		gr += c.n * pI * bJ
		grp += c.n * float64(c.I) * powi(pi, c.I-1) * bJ
		grt += c.n * pI * float64(c.J) * powi(b, c.J-1)
		grtt += c.n * pI * float64(c.J*(c.J-1)) * powi(b, c.J-2)
	}
	return props{
		v:  rWater * T / p * pi * (1/pi + grp),
		h:  rWater * T * tau * (g0t + grt),
		s:  rWater * (tau*(g0t+grt) - (g0 + gr)),
		cp: -rWater * tau * tau * (g0tt + grtt),
	}
}

// psatWater is the saturation pressure, valid from 273.15 K to the critical point
func psatWater(T float64) float64 {
	n := region4
	th := T + n[8]/(T-n[9])
	A := th*th + n[0]*th + n[1]
	B := n[2]*th*th + n[3]*th + n[4]
	C := n[5]*th*th + n[6]*th + n[7]
	return powi(2*C/(-B+math.Sqrt(B*B-4*A*C)), 4) * 1e6
}

// tsatWater is the saturation temperature, valid from the triple point to the critical point
func tsatWater(p float64) float64 {
	n := region4
	beta := math.Pow(p/1e6, 0.25)
	E := beta*beta + n[2]*beta + n[5]
	F := n[0]*beta*beta + n[3]*beta + n[6]
	G := n[1]*beta*beta + n[4]*beta + n[7]
	D := 2 * G / (-F - math.Sqrt(F*F-4*E*G))
	return (n[9] + D - math.Sqrt((n[9]+D)*(n[9]+D)-4*(n[8]+n[9]*D))) / 2
}

// pB23 is the pressure on the region 2/3 boundary
func pB23(T float64) float64 {
	return (b23[0] + b23[1]*T + b23[2]*T*T) * 1e6
}

// tB23 is the temperature on the region 2/3 boundary
func tB23(p float64) float64 {
	return b23[3] + math.Sqrt((p/1e6-b23[4])/b23[2])
}

var viscosityH0 = [4]float64{1.67752, 2.20462, 0.6366564, -0.241605}

var viscosityH1 = [6][7]float64{
	{5.20094e-1, 2.22531e-1, -2.81378e-1, 1.61913e-1, -3.25372e-2, 0, 0},
	{8.50895e-2, 9.99115e-1, -9.06851e-1, 2.57399e-1, 0, 0, 0},
	{-1.08374, 1.88797, -7.72479e-1, 0, 0, 0, 0},
	{-2.89555e-1, 1.26613, -4.89837e-1, 0, 6.98452e-2, 0, -4.35673e-3},
	{0, 0, -2.57040e-1, 0, 0, 8.72102e-3, 0},
	{0, 1.20573e-1, 0, 0, 0, 0, -5.93264e-4},
}

// viscosityWater is the IAPWS 2008 viscosity without the critical enhancement [Pa·s]
func viscosityWater(T, rho float64) float64 {
	tb, rb := T/tcWater, rho/rhoWater
	var d0 float64
	for i, h := range viscosityH0 {
		d0 += h / powi(tb, i)
	}
	mu0 := 100 * math.Sqrt(tb) / d0
	var sum float64
	for i := range viscosityH1 {
		ti := powi(1/tb-1, i)
		for j, h := range viscosityH1[i] {
			if h != 0 {
				sum += h * ti * powi(rb-1, j)
			}
		}
	}
	return mu0 * math.Exp(rb*sum) * 1e-6
}
