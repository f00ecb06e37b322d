package bijector

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Exp is the elementwise bijection f(x) = eˣ, mapping the real line to
// the positive reals. Its Jacobian depends on the input point, so
// distributions pushed through an Exp have no closed-form mean, mode,
// or entropy.
//
// Exp treats each element of its input as a separate event, so both
// EventNdimsIn and EventNdimsOut are 0. The forward log-determinant at
// x is x itself; the inverse log-determinant at y is -log(y).
type Exp struct{}

// NewExp returns a new Exp
func NewExp() *Exp { return &Exp{} }

// Name returns the name of the bijector
func (e *Exp) Name() string { return "Exp" }

func (e *Exp) EventNdimsIn() int { return 0 }

func (e *Exp) EventNdimsOut() int { return 0 }

func (e *Exp) IsConstantJacobian() bool { return false }

func (e *Exp) IsConstantLogDet() bool { return false }

// Forward computes eˣ
func (e *Exp) Forward(x *G.Node) (*G.Node, error) {
	return G.Exp(x)
}

// InverseAndLogDet computes log(y) and the inverse log-determinant
// -log(y). The domain of the inverse is the positive reals; outside it
// the computation yields NaN when run.
func (e *Exp) InverseAndLogDet(y *G.Node) (*G.Node, *G.Node, error) {
	x, err := G.Log(y)
	if err != nil {
		return nil, nil, fmt.Errorf("inverseAndLogDet: %v", err)
	}

	ildj, err := G.Neg(x)
	if err != nil {
		return nil, nil, fmt.Errorf("inverseAndLogDet: %v", err)
	}

	return x, ildj, nil
}

// ForwardAndLogDet computes eˣ and the forward log-determinant x
func (e *Exp) ForwardAndLogDet(x *G.Node) (*G.Node, *G.Node, error) {
	y, err := G.Exp(x)
	if err != nil {
		return nil, nil, fmt.Errorf("forwardAndLogDet: %v", err)
	}

	return y, x, nil
}

// ForwardLogDetJacobian computes the forward log-determinant, which
// for Exp is the input itself
func (e *Exp) ForwardLogDetJacobian(x *G.Node) (*G.Node, error) {
	return x, nil
}
