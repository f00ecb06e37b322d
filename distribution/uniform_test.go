package distribution

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// TestUniformLogProb checks the log density inside and outside the
// support against gonum's Uniform.
func TestUniformLogProb(t *testing.T) {
	const threshold = 0.00001

	g := G.NewGraph()
	u := scalarUniform(t, g, -1.0, 3.0, uint64(11))

	xBacking := []float64{-2.0, -1.0, 0.0, 2.5, 3.5}
	xT := tensor.NewDense(
		tensor.Float64,
		[]int{len(xBacking), 1},
		tensor.WithBacking(xBacking),
	)
	x := G.NewMatrix(g, tensor.Float64, G.WithValue(xT), G.WithName("x"))

	lp, err := u.LogProb(x)
	if err != nil {
		t.Fatal(err)
	}
	var lpVal G.Value
	G.Read(lp, &lpVal)

	prob, err := u.Prob(x)
	if err != nil {
		t.Fatal(err)
	}
	var probVal G.Value
	G.Read(prob, &probVal)

	vm := G.NewTapeMachine(g)
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}
	defer vm.Close()

	ref := distuv.Uniform{Min: -1.0, Max: 3.0}
	lpOut := lpVal.Data().([]float64)
	probOut := probVal.Data().([]float64)
	for i, x := range xBacking {
		if x < -1.0 || x > 3.0 {
			if !math.IsInf(lpOut[i], -1) {
				t.Errorf("expected -Inf outside the support but got %v "+
					"for x: %v", lpOut[i], x)
			}
			if probOut[i] != 0.0 {
				t.Errorf("expected density 0 outside the support but "+
					"got %v for x: %v", probOut[i], x)
			}
			continue
		}

		if math.Abs(lpOut[i]-ref.LogProb(x)) > threshold {
			t.Errorf("expected: %v received: %v for x: %v", ref.LogProb(x),
				lpOut[i], x)
		}
		if math.Abs(probOut[i]-ref.Prob(x)) > threshold {
			t.Errorf("expected: %v received: %v for x: %v", ref.Prob(x),
				probOut[i], x)
		}
	}
}

// TestUniformMoments checks the closed-form mean and entropy.
func TestUniformMoments(t *testing.T) {
	const threshold = 0.00001

	g := G.NewGraph()
	u := scalarUniform(t, g, -1.0, 3.0, uint64(11))

	mean, err := u.Mean()
	if err != nil {
		t.Fatal(err)
	}
	entropy, err := u.Entropy()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := u.Mode(); err == nil {
		t.Error("expected an error from Mode")
	}

	var meanVal, entropyVal G.Value
	G.Read(mean, &meanVal)
	G.Read(entropy, &entropyVal)

	vm := G.NewTapeMachine(g)
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}
	defer vm.Close()

	meanOut := meanVal.Data().([]float64)
	if math.Abs(meanOut[0]-1.0) > threshold {
		t.Errorf("expected mean 1 but got %v", meanOut[0])
	}

	entropyOut := entropyVal.Data().([]float64)
	if math.Abs(entropyOut[0]-math.Log(4.0)) > threshold {
		t.Errorf("expected entropy %v but got %v", math.Log(4.0),
			entropyOut[0])
	}
}

// TestUniformSample checks that samples stay inside the support and
// that the same seed yields the same stream.
func TestUniformSample(t *testing.T) {
	const numSamples = 1000

	g := G.NewGraph()
	u := scalarUniform(t, g, -1.0, 3.0, uint64(42))

	first, err := u.Sample(numSamples)
	if err != nil {
		t.Fatal(err)
	}
	second, err := u.Sample(numSamples)
	if err != nil {
		t.Fatal(err)
	}

	var firstVal, secondVal G.Value
	G.Read(first, &firstVal)
	G.Read(second, &secondVal)

	vm := G.NewTapeMachine(g)
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}
	defer vm.Close()

	firstOut := firstVal.Data().([]float64)
	secondOut := secondVal.Data().([]float64)
	for i := range firstOut {
		if firstOut[i] < -1.0 || firstOut[i] >= 3.0 {
			t.Errorf("sample %v outside the support [-1, 3)", firstOut[i])
		}
		if firstOut[i] != secondOut[i] {
			t.Errorf("same seed produced different samples: %v and %v",
				firstOut[i], secondOut[i])
		}
	}
}

// TestUniformSampleAndLogProb checks that the joint primitive agrees
// with LogProb on its own samples.
func TestUniformSampleAndLogProb(t *testing.T) {
	const numSamples = 100
	const threshold = 0.00001

	g := G.NewGraph()
	u := scalarUniform(t, g, 0.0, 2.0, uint64(42))

	x, lp, err := u.SampleAndLogProb(numSamples)
	if err != nil {
		t.Fatal(err)
	}

	lpSeparate, err := u.LogProb(x)
	if err != nil {
		t.Fatal(err)
	}

	var lpVal, lpSeparateVal G.Value
	G.Read(lp, &lpVal)
	G.Read(lpSeparate, &lpSeparateVal)

	vm := G.NewTapeMachine(g)
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}
	defer vm.Close()

	lpOut := lpVal.Data().([]float64)
	lpSeparateOut := lpSeparateVal.Data().([]float64)
	for i := range lpOut {
		if math.Abs(lpOut[i]-lpSeparateOut[i]) > threshold {
			t.Errorf("joint and separate densities disagree: %v and %v",
				lpOut[i], lpSeparateOut[i])
		}
		if math.Abs(lpOut[i]-(-math.Log(2.0))) > threshold {
			t.Errorf("expected log prob %v but got %v", -math.Log(2.0),
				lpOut[i])
		}
	}
}
