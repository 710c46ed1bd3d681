package pipeline

import (
	"fmt"
)

var _ = fmt.Print

func is_identity_stage(s Stage) bool {
	switch s := s.(type) {
	case *ToneCurves:
		return s.IsIdentity()
	case *Matrix:
		return s.IsIdentity()
	}
	return false
}

// Optimized returns an equivalent pipeline with identity stages removed
// and runs of adjacent matrices folded into a single matrix. A pipeline
// that reduces to nothing becomes a single identity stage so that its
// channel counts are preserved.
func (p *Pipeline) Optimized() (*Pipeline, error) {
	stages := make([]Stage, 0, len(p.stages))
	for _, s := range p.stages {
		if is_identity_stage(s) {
			continue
		}
		if m, ok := s.(*Matrix); ok && len(stages) > 0 {
			if prev, ok := stages[len(stages)-1].(*Matrix); ok {
				combined, err := prev.Then(m)
				if err != nil {
					return nil, err
				}
				if combined.IsIdentity() {
					stages = stages[:len(stages)-1]
				} else {
					stages[len(stages)-1] = combined
				}
				continue
			}
		}
		stages = append(stages, s)
	}
	if len(stages) == 0 && len(p.stages) > 0 {
		c, err := NewIdentityCurves(p.InputChannels())
		if err != nil {
			return nil, err
		}
		stages = append(stages, c)
	}
	return NewPipeline(stages...)
}
