package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/integrate/quad"
)

// IntRule returns a quadrature rule on the reference simplex with vertices at
// the origin and the unit axis points, exact for polynomials of degree order.
// Weights sum to the reference measure: 1, 1/2 and 1/6 for lines, triangles
// and tets.
func IntRule(geom ElementType, order int) (ips []IntegrationPoint) {
	if order < 0 {
		panic(fmt.Errorf("negative quadrature order %d", order))
	}
	switch geom {
	case Point:
		return []IntegrationPoint{{Weight: 1}}
	case Line:
		x, w := gaussLegendre(order)
		ips = make([]IntegrationPoint, len(x))
		for i := range x {
			ips[i] = IntegrationPoint{X: x[i], Weight: w[i]}
		}
	case Triangle:
		ips = collapsedTriangle(order)
	case Tet:
		if order <= 2 {
			ips = tetRule(order)
		} else {
			ips = collapsedTet(order)
		}
	default:
		panic(fmt.Errorf("no integration rule for element type %v", geom))
	}
	return
}

// gaussLegendre returns a Gauss-Legendre rule on [0,1] exact to degree order
func gaussLegendre(order int) (x, w []float64) {
	n := order/2 + 1
	x, w = make([]float64, n), make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, 0, 1)
	return
}

// collapsedTriangle maps a tensor Gauss rule through the Duffy transform
// ξ = u, η = v(1-u), with Jacobian (1-u).
func collapsedTriangle(order int) (ips []IntegrationPoint) {
	xu, wu := gaussLegendre(order + 1)
	xv, wv := gaussLegendre(order)
	for i := range xu {
		for j := range xv {
			ips = append(ips, IntegrationPoint{
				X:      xu[i],
				Y:      xv[j] * (1 - xu[i]),
				Weight: wu[i] * wv[j] * (1 - xu[i]),
			})
		}
	}
	return
}

// collapsedTet extends the Duffy transform to tets,
// ξ = u, η = v(1-u), ζ = w(1-u)(1-v), with Jacobian (1-u)²(1-v).
func collapsedTet(order int) (ips []IntegrationPoint) {
	xu, wu := gaussLegendre(order + 2)
	xv, wv := gaussLegendre(order + 1)
	xw, ww := gaussLegendre(order)
	for i := range xu {
		for j := range xv {
			for k := range xw {
				ips = append(ips, IntegrationPoint{
					X:      xu[i],
					Y:      xv[j] * (1 - xu[i]),
					Z:      xw[k] * (1 - xu[i]) * (1 - xv[j]),
					Weight: wu[i] * wv[j] * ww[k] * (1 - xu[i]) * (1 - xu[i]) * (1 - xv[j]),
				})
			}
		}
	}
	return
}

// tetRule returns the symmetric Williams-Shunn-Jameson points, mapped from the
// [-1,1]³ reference tet, volume 4/3, onto the unit tet, volume 1/6.
func tetRule(order int) (ips []IntegrationPoint) {
	if order <= 1 {
		// Barycentric: (1/4, 1/4, 1/4, 1/4)
		return []IntegrationPoint{{X: 0.25, Y: 0.25, Z: 0.25, Weight: 1. / 6.}}
	}
	// Barycentric coordinates: (a,b,b,b), (b,a,b,b), (b,b,a,b), (b,b,b,a)
	a := 0.58541019662496845446
	b := 0.13819660112501051518
	w := (1.0 / 3.0) / 8.0
	return []IntegrationPoint{
		{X: b, Y: b, Z: b, Weight: w},
		{X: a, Y: b, Z: b, Weight: w},
		{X: b, Y: a, Z: b, Weight: w},
		{X: b, Y: b, Z: a, Weight: w},
	}
}
