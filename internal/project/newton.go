// Package project provides a Newton-style constraint projector for
// systems that expose their constraint Jacobian.
package project

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/renyard/dynstep/internal/dyn"
)

// System is what the projector needs from a constrained model: the
// standard residuals plus the position-constraint Jacobian dphi/dq,
// NumConstraints rows by len(Q) columns. The velocity-level
// constraints are the Jacobian applied to u, so one matrix serves both
// projections.
type System interface {
	dyn.Constrained

	NumConstraints() int
	ConstraintJacobian(s *dyn.State, jac *mat.Dense)
}

// Newton projects states onto the constraint manifold by damped-free
// Newton iteration on the position constraints and a single linear
// solve for the velocity constraints. It also removes the
// constraint-normal component of the step error estimate so the error
// test sees only the tangential error that projection cannot fix.
type Newton struct {
	sys           System
	MaxIterations int

	jac *mat.Dense
	jjt mat.Dense
	lam mat.VecDense
	dq  mat.VecDense
}

func NewNewton(sys System) *Newton {
	return &Newton{
		sys:           sys,
		MaxIterations: 10,
	}
}

// Project implements dyn.Projector.
func (n *Newton) Project(s *dyn.State, yErrEst []float64) error {
	m := n.sys.NumConstraints()
	nq := len(s.Q)
	nu := len(s.U)
	if m == 0 {
		return nil
	}
	if r, c := jacDims(n.jac); r != m || c != nq {
		n.jac = mat.NewDense(m, nq, nil)
	}

	tol := n.sys.ConstraintTolerance()

	// Position projection: iterate q <- q - J^T (J J^T)^-1 phi(q).
	converged := false
	for iter := 0; iter < n.MaxIterations; iter++ {
		res := n.sys.ConstraintErrors(s)
		if weightedMax(res[:m], n.sys.OneOverTolerances()[:m]) <= tol {
			converged = true
			break
		}
		n.sys.ConstraintJacobian(s, n.jac)
		if err := n.solveNormal(res[:m], s.Q); err != nil {
			return err
		}
	}
	if !converged {
		return fmt.Errorf("project: position stage after %d iterations: %w",
			n.MaxIterations, dyn.ErrProjectionFailed)
	}

	// Velocity projection is linear in u: remove J^T (J J^T)^-1 (J u).
	n.sys.ConstraintJacobian(s, n.jac)
	res := n.sys.ConstraintErrors(s)
	if len(res) >= 2*m {
		if err := n.solveNormal(res[m:2*m], s.U); err != nil {
			return err
		}
	}

	// Project the error estimate onto the constraint tangent plane.
	if yErrEst != nil {
		if err := n.projectErrorEstimate(yErrEst[:nq]); err != nil {
			return err
		}
		if err := n.projectErrorEstimate(yErrEst[nq : nq+nu]); err != nil {
			return err
		}
	}
	return nil
}

// solveNormal solves (J J^T) lam = res and subtracts J^T lam from v.
func (n *Newton) solveNormal(res []float64, v []float64) error {
	n.jjt.Reset()
	n.jjt.Mul(n.jac, n.jac.T())
	b := mat.NewVecDense(len(res), res)
	n.lam.Reset()
	if err := n.lam.SolveVec(&n.jjt, b); err != nil {
		return fmt.Errorf("project: singular constraint system: %w", dyn.ErrProjectionFailed)
	}
	n.dq.Reset()
	n.dq.MulVec(n.jac.T(), &n.lam)
	for i := range v {
		v[i] -= n.dq.AtVec(i)
	}
	return nil
}

// projectErrorEstimate removes the J^T (J J^T)^-1 J component of e.
func (n *Newton) projectErrorEstimate(e []float64) error {
	m, _ := n.jac.Dims()
	je := mat.NewVecDense(m, nil)
	je.MulVec(n.jac, mat.NewVecDense(len(e), e))
	res := make([]float64, m)
	for i := range res {
		res[i] = je.AtVec(i)
	}
	return n.solveNormal(res, e)
}

func jacDims(j *mat.Dense) (r, c int) {
	if j == nil {
		return 0, 0
	}
	return j.Dims()
}

func weightedMax(v, oneOverTol []float64) float64 {
	max := 0.0
	for i, x := range v {
		wx := x * oneOverTol[i]
		if wx < 0 {
			wx = -wx
		}
		if wx > max {
			max = wx
		}
	}
	return max
}
