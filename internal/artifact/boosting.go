package artifact

import (
	"errors"
	"fmt"
)

// leaf marks a node without children, as in scikit-learn tree exports
const leaf = -1

// GradientBoosting is an ensemble of regression trees:
// init + learning_rate * sum(tree(x))
type GradientBoosting struct {
	header
	Init         float64 `json:"init"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
}

// Tree is a regression tree stored as a flat node list rooted at index 0
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is a split on Feature when Left is not -1, a leaf holding Value otherwise.
// Samples with x[Feature] <= Threshold go left.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

func (m *GradientBoosting) FeatureNames() []string {
	return append([]string(nil), m.Features...)
}

func (m *GradientBoosting) Predict(features []float64) (float64, error) {
	if len(m.Features) != 0 {
		if err := checkWidth(features, len(m.Features)); err != nil {
			return 0, err
		}
	}

	sum := 0.0
	for i, t := range m.Trees {
		v, err := t.eval(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	return m.Init + m.LearningRate*sum, nil
}

func (t Tree) eval(features []float64) (float64, error) {
	n := t.Nodes[0]
	// validate guarantees children come after their parent, so the walk ends
	for n.Left != leaf {
		if n.Feature >= len(features) {
			return 0, fmt.Errorf("split on feature %d of %d", n.Feature, len(features))
		}
		if features[n.Feature] <= n.Threshold {
			n = t.Nodes[n.Left]
		} else {
			n = t.Nodes[n.Right]
		}
	}
	return n.Value, nil
}

func (m *GradientBoosting) validate() error {
	if len(m.Trees) == 0 {
		return errors.New("trees are empty")
	}
	for i, t := range m.Trees {
		if err := t.validate(len(m.Features)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func (t Tree) validate(width int) error {
	if len(t.Nodes) == 0 {
		return errors.New("nodes are empty")
	}
	for i, n := range t.Nodes {
		if n.Left == leaf {
			continue
		}
		switch {
		case n.Feature < 0 || (width > 0 && n.Feature >= width):
			return fmt.Errorf("node %d splits on unknown feature %d", i, n.Feature)
		case n.Left <= i || n.Left >= len(t.Nodes):
			return fmt.Errorf("node %d has an invalid left child %d", i, n.Left)
		case n.Right <= i || n.Right >= len(t.Nodes):
			return fmt.Errorf("node %d has an invalid right child %d", i, n.Right)
		}
	}
	return nil
}
