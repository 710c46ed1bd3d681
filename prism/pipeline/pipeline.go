package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kovidgoyal/cmm/prism/interp"
)

var _ = fmt.Print

// Pipeline is an ordered list of stages where each stage consumes the
// output of the one before it. Channel counts are checked when stages are
// added so evaluation never fails. A pipeline must not be modified while
// it is being evaluated, evaluation itself is safe from multiple
// goroutines.
type Pipeline struct {
	stages []Stage
	evals  []stage_func
}

type DebugCallback = func(s Stage, in, out []float32)

func NewPipeline(stages ...Stage) (*Pipeline, error) {
	p := &Pipeline{}
	if err := p.Append(stages...); err != nil {
		return nil, err
	}
	return p, nil
}

func stage_is_nil(s Stage) bool {
	switch s := s.(type) {
	case *ToneCurves:
		return s == nil
	case *Matrix:
		return s == nil
	case *CLut:
		return s == nil
	}
	return s == nil
}

// Insert adds stages at idx, which must be in [0, Len()]. Either all the
// stages are added or, on error, the pipeline is left unchanged.
func (p *Pipeline) Insert(idx int, stages ...Stage) error {
	if idx < 0 || idx > len(p.stages) {
		return fmt.Errorf("%w: cannot insert at idx: %d in pipeline of length: %d", ErrInvalidStage, idx, len(p.stages))
	}
	for i, s := range stages {
		if stage_is_nil(s) {
			return fmt.Errorf("%w: stage %d to insert is nil", ErrInvalidStage, i)
		}
	}
	if len(stages) == 0 {
		return nil
	}
	candidate := slices.Concat(p.stages[:idx], stages, p.stages[idx:])
	if err := check_chain(candidate); err != nil {
		return err
	}
	evals := make([]stage_func, len(stages))
	for i, s := range stages {
		evals[i] = evaluator_for(s)
	}
	p.stages = candidate
	p.evals = slices.Concat(p.evals[:idx], evals, p.evals[idx:])
	return nil
}

func check_chain(stages []Stage) error {
	for i := 1; i < len(stages); i++ {
		prev, s := stages[i-1], stages[i]
		if prev.OutputChannels() != s.InputChannels() {
			return fmt.Errorf("%w: stage %d (%s) has %d outputs but stage %d (%s) has %d inputs", ErrChannelMismatch,
				i-1, prev, prev.OutputChannels(), i, s, s.InputChannels())
		}
	}
	return nil
}

func (p *Pipeline) Append(stages ...Stage) error  { return p.Insert(len(p.stages), stages...) }
func (p *Pipeline) Prepend(stages ...Stage) error { return p.Insert(0, stages...) }

// RemoveFirst removes and returns the first stage or nil if the pipeline
// is empty
func (p *Pipeline) RemoveFirst() Stage {
	if len(p.stages) == 0 {
		return nil
	}
	ans := p.stages[0]
	p.stages = slices.Delete(p.stages, 0, 1)
	p.evals = slices.Delete(p.evals, 0, 1)
	return ans
}

func (p *Pipeline) RemoveLast() Stage {
	if len(p.stages) == 0 {
		return nil
	}
	ans := p.stages[len(p.stages)-1]
	p.stages = p.stages[:len(p.stages)-1]
	p.evals = p.evals[:len(p.evals)-1]
	return ans
}

// Concat appends the stages of o to this pipeline
func (p *Pipeline) Concat(o *Pipeline) error {
	if o == nil {
		return nil
	}
	return p.Append(o.stages...)
}

// Clone returns a new pipeline sharing the (immutable) stages of this one
func (p *Pipeline) Clone() *Pipeline {
	return &Pipeline{stages: slices.Clone(p.stages), evals: slices.Clone(p.evals)}
}

func (p *Pipeline) Len() int          { return len(p.stages) }
func (p *Pipeline) Stages() []Stage   { return slices.Clone(p.stages) }
func (p *Pipeline) Stage(i int) Stage { return p.stages[i] }

func (p *Pipeline) InputChannels() int {
	if len(p.stages) == 0 {
		return 0
	}
	return p.stages[0].InputChannels()
}

func (p *Pipeline) OutputChannels() int {
	if len(p.stages) == 0 {
		return 0
	}
	return p.stages[len(p.stages)-1].OutputChannels()
}

// IsSuitableFor returns true if this pipeline maps i channels to o channels
func (p *Pipeline) IsSuitableFor(i, o int) bool {
	return len(p.stages) > 0 && p.InputChannels() == i && p.OutputChannels() == o
}

// Evaluate transforms in, which must have at least InputChannels() values,
// writing OutputChannels() values to out. An empty pipeline copies in to
// out.
func (p *Pipeline) Evaluate(in, out []float32) {
	if len(p.stages) == 0 {
		copy(out, in)
		return
	}
	var storage [2][interp.MaxStageChannels]float32
	src := storage[0][:copy(storage[0][:], in[:p.InputChannels()])]
	for i, f := range p.evals {
		dst := storage[(i+1)&1][:p.stages[i].OutputChannels()]
		f(src, dst)
		src = dst
	}
	copy(out, src)
}

// Evaluate16 is Evaluate for 16-bit values where 0xffff represents 1.0
func (p *Pipeline) Evaluate16(in, out []uint16) {
	if len(p.stages) == 0 {
		copy(out, in)
		return
	}
	var fin, fout [interp.MaxStageChannels]float32
	n, m := p.InputChannels(), p.OutputChannels()
	for i, v := range in[:n] {
		fin[i] = interp.From16ToFloat(v)
	}
	p.Evaluate(fin[:n], fout[:m])
	for i, v := range fout[:m] {
		out[i] = interp.FromFloatTo16(v)
	}
}

// EvaluateDebug is Evaluate calling cb with the input and output of every
// stage
func (p *Pipeline) EvaluateDebug(in, out []float32, cb DebugCallback) {
	if len(p.stages) == 0 {
		copy(out, in)
		return
	}
	src := slices.Clone(in[:p.InputChannels()])
	for i, f := range p.evals {
		dst := make([]float32, p.stages[i].OutputChannels())
		f(src, dst)
		cb(p.stages[i], src, dst)
		src = dst
	}
	copy(out, src)
}

// UseTrilinearInterpolation switches every three input lookup table to
// trilinear rather than tetrahedral interpolation
func (p *Pipeline) UseTrilinearInterpolation() error {
	for i, s := range p.stages {
		if c, ok := s.(*CLut); ok && c.InputChannels() == 3 && !c.Flags().IsTrilinear() {
			nc, err := c.with_flags(c.Flags() | interp.FlagTrilinear)
			if err != nil {
				return err
			}
			p.stages[i] = nc
			p.evals[i] = evaluator_for(nc)
		}
	}
	return nil
}

func stages_as_string(stages ...Stage) string {
	items := make([]string, len(stages))
	for i, s := range stages {
		items[i] = s.String()
	}
	return strings.Join(items, " → ")
}

func (p *Pipeline) String() string {
	return stages_as_string(p.stages...)
}
