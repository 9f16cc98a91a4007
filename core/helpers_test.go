package core

import (
	"github.com/huangsam/topsis/schema"
)

func phoneRequest() RankRequest {
	return RankRequest{
		Matrix: schema.DecisionMatrix{
			LabelHeader: "Model",
			Criteria:    []string{"Price", "Storage", "Camera"},
			Rows: []schema.Alternative{
				{Label: "A", Values: []string{"250", "16", "12"}},
				{Label: "B", Values: []string{"200", "16", "8"}},
				{Label: "C", Values: []string{"300", "32", "16"}},
				{Label: "D", Values: []string{"275", "32", "8"}},
				{Label: "E", Values: []string{"225", "16", "16"}},
			},
		},
		Weights: schema.WeightVector{0.25, 0.25, 0.5},
		Impacts: schema.ImpactVector{schema.Cost, schema.Benefit, schema.Benefit},
		Source:  "test",
	}
}

const phoneCSV = `Model,Price,Storage,Camera
A,250,16,12
B,200,16,8
C,300,32,16
D,275,32,8
E,225,16,16
`

func labelsOf(result schema.RankedResult) []string {
	labels := make([]string, len(result.Rows))
	for i, row := range result.Rows {
		labels[i] = row.Label
	}
	return labels
}
