// Package bijector provides invertible, differentiable transformations
// of Gorgonia nodes
package bijector

import (
	G "gorgonia.org/gorgonia"
)

// Bijector is an invertible, differentiable map between two spaces.
// It exposes forward and inverse evaluation together with the
// log-absolute-determinant of the Jacobian in both directions, which is
// the correction term in the change-of-variables density formula.
//
// A Bijector consumes the trailing EventNdimsIn dimensions of its input
// as one event and produces EventNdimsOut trailing event dimensions.
// Every method must accept inputs that carry any number of extra
// leading dimensions (batch or sample dimensions) and treat those
// dimensions elementwise. Log-determinant outputs are reduced over the
// event dimensions, so their shape is the input shape with the trailing
// EventNdimsIn dimensions removed.
//
// The output shape and dtype of Forward must depend only on the input
// shape and dtype, never on input values. Forward is applied to
// value-less placeholder nodes to infer the shape of transformed
// distributions, so a Forward that inspects values will fail there.
type Bijector interface {
	Name() string

	// EventNdimsIn returns the number of trailing dimensions the
	// bijector consumes as one event
	EventNdimsIn() int

	// EventNdimsOut returns the number of trailing event dimensions
	// the bijector produces
	EventNdimsOut() int

	// IsConstantJacobian returns whether the Jacobian of the forward
	// map is provably independent of the input point, as for affine
	// maps
	IsConstantJacobian() bool

	// IsConstantLogDet returns whether the log-determinant of the
	// Jacobian is provably independent of the input point
	IsConstantLogDet() bool

	// Forward computes y = f(x)
	Forward(x *G.Node) (*G.Node, error)

	// InverseAndLogDet computes x = f⁻¹(y) together with
	// log|det J(f⁻¹)(y)|
	InverseAndLogDet(y *G.Node) (x, ildj *G.Node, err error)

	// ForwardAndLogDet computes y = f(x) together with
	// log|det J(f)(x)|
	ForwardAndLogDet(x *G.Node) (y, fldj *G.Node, err error)

	// ForwardLogDetJacobian computes log|det J(f)(x)|
	ForwardLogDetJacobian(x *G.Node) (*G.Node, error)
}
