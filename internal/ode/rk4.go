// Package ode integrates first order systems of ordinary differential
// equations with a fixed step classic Runge-Kutta scheme.
package ode

import "gonum.org/v1/gonum/floats"

// Func is the right hand side of the system y' = f(t, y). It writes the
// derivative into dydt, which has the same length as y.
type Func func(t float64, y, dydt []float64)

// RK4 is a fixed step fourth order Runge-Kutta integrator. The zero value
// is ready for use; its scratch buffers are reused between calls.
type RK4 struct {
	k1, k2, k3, k4, tmp []float64
}

func (r *RK4) grow(n int) {
	if cap(r.k1) >= n {
		r.k1, r.k2, r.k3, r.k4, r.tmp = r.k1[:n], r.k2[:n], r.k3[:n], r.k4[:n], r.tmp[:n]
		return
	}
	r.k1 = make([]float64, n)
	r.k2 = make([]float64, n)
	r.k3 = make([]float64, n)
	r.k4 = make([]float64, n)
	r.tmp = make([]float64, n)
}

// Step advances y in place by a single step of size h from t.
func (r *RK4) Step(f Func, t, h float64, y []float64) {
	r.grow(len(y))
	f(t, y, r.k1)
	floats.AddScaledTo(r.tmp, y, h/2, r.k1)
	f(t+h/2, r.tmp, r.k2)
	floats.AddScaledTo(r.tmp, y, h/2, r.k2)
	f(t+h/2, r.tmp, r.k3)
	floats.AddScaledTo(r.tmp, y, h, r.k3)
	f(t+h, r.tmp, r.k4)
	for i := range y {
		y[i] += h / 6 * (r.k1[i] + 2*r.k2[i] + 2*r.k3[i] + r.k4[i])
	}
}

// Integrate advances y in place from t0 to t1 using n equal steps.
// t1 may be smaller than t0.
func (r *RK4) Integrate(f Func, t0, t1 float64, n int, y []float64) {
	if n < 1 {
		panic("ode: number of steps must be positive")
	}
	h := (t1 - t0) / float64(n)
	for i := 0; i < n; i++ {
		r.Step(f, t0+float64(i)*h, h, y)
	}
}
