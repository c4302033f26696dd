// Package gctootest provides a small container with representative CMap
// metadata for tests.
package gctootest

import (
	"github.com/carbocation/gctoo"
)

// IDs label both the rows and the columns of Mini.
var IDs = []string{
	"LJP007_MCF10A_24H:TRT_CP:BRD-K93918653:3.33",
	"MISC003_A375_24H:TRT_CP:BRD-K93918653:3.33",
	"LJP007_MCF7_24H:TRT_POSCON:BRD-K81418486:10",
	"LJP007_MCF7_24H:TRT_POSCON:BRD-A61304759:10",
	"LJP007_MCF7_24H:CTL_VEHICLE:DMSO:-666",
	"LJP007_MCF7_24H:TRT_CP:BRD-K64857848:10",
}

// Data is the 6x6 data block, row-major.
var Data = [][]float64{
	{1, 2, 3, 4, 5, 6},
	{4.3, 4.5, 4.3, 4.3, 4.3, 4.3},
	{7, 8, 9, 0, 1.23476, 9.758320},
	{0.11, 3.3456356, 2.345667, 9.822065353, 4.78865099, 4.7886},
	{-0.11, -3.3456356, -2.345667, -9.822065353, -4.78865099, -4.7886},
	{1, -2, 3, -4, 5, -6},
}

// Metadata returns the shared metadata table. The mfc_plate_id field holds
// only the legacy sentinel, which reads as missing when convertNeg666 is set.
func Metadata(convertNeg666 bool) *gctoo.MetaTable {
	countCV := []string{"14|15|14", "13|14|13",
		"13|15|14|14|15|14|14|13|14|15|15|14|14|15|14|15|14|14|15|14|15|14|14|14|14|14|14|15|14|14|15|14|14|14|14|13|14|14|14|14|14|14|15|14|13|13|15|14|14|15|14|14|14|15|13|13|15|13|14|13|13|14|14|14|14|13",
		"13", "13", "14"}
	distilSS := []float64{9.822065353, 6.8915205, 1.35840559, 5.548898697, 3.355231762, 4.837643147}
	distilNSample := []int64{3, 3, 66, 2, 9, 111111}

	n := len(IDs)
	cols := []gctoo.Column{
		{Name: "count_cv", Values: make([]gctoo.Value, n)},
		{Name: "distil_ss", Values: make([]gctoo.Value, n)},
		{Name: "zmad_ref", Values: make([]gctoo.Value, n)},
		{Name: "distil_nsample", Values: make([]gctoo.Value, n)},
		{Name: "mfc_plate_id", Values: make([]gctoo.Value, n)},
	}
	for i := 0; i < n; i++ {
		cols[0].Values[i] = gctoo.TextValue(countCV[i])
		cols[1].Values[i] = gctoo.NumberValue(distilSS[i])
		cols[2].Values[i] = gctoo.TextValue("population")
		cols[3].Values[i] = gctoo.IntValue(distilNSample[i])
		if !convertNeg666 {
			cols[4].Values[i] = gctoo.IntValue(-666)
		}
	}
	meta, err := gctoo.NewMetaTable(IDs, cols)
	if err != nil {
		panic(err)
	}
	return meta
}

// Mini builds the fixture container, with source "mini_gctoo.gctx" and
// version "GCTX1.0".
func Mini(convertNeg666 bool) *gctoo.GCToo {
	data, err := gctoo.NewMatrixFromRows(IDs, IDs, Data)
	if err != nil {
		panic(err)
	}
	meta := Metadata(convertNeg666)
	g, err := gctoo.New(data, meta, meta, gctoo.WithSource("mini_gctoo.gctx"), gctoo.WithVersion("GCTX1.0"))
	if err != nil {
		panic(err)
	}
	return g
}
