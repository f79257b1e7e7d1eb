package main

import (
	"fmt"
	"strconv"

	"github.com/FastFilter/bloomfilter"
)

func hasherFor(name string) (bloomfilter.Hasher[string], error) {
	switch name {
	case "xxhash":
		return bloomfilter.HashString, nil
	case "murmur3":
		return func(s string) int32 { return bloomfilter.HashMurmur3([]byte(s)) }, nil
	case "maphash":
		return bloomfilter.Comparable[string](), nil
	}
	return nil, fmt.Errorf("unknown hash %q (want xxhash, murmur3 or maphash)", name)
}

type Result struct {
	Params         bloomfilter.Params
	Inserted       int
	Queries        int
	FalsePositives int
	Empirical      float64
	Estimated      float64
	FillRatio      float64
}

// Measure inserts the decimal strings of [0, Inserts) and queries the
// next Queries integers, none of which were inserted.
func Measure(cfg *Config) (Result, error) {
	hash, err := hasherFor(cfg.Hash)
	if err != nil {
		return Result{}, err
	}
	filter, err := bloomfilter.New(cfg.Capacity, cfg.BitsPerValue, hash)
	if err != nil {
		return Result{}, err
	}
	for i := 0; i < cfg.Inserts; i++ {
		if err := filter.Add(strconv.Itoa(i)); err != nil {
			return Result{}, fmt.Errorf("insert %d of %d: %w", i, cfg.Inserts, err)
		}
	}
	for i := 0; i < cfg.Inserts; i++ {
		if !filter.MaybeContains(strconv.Itoa(i)) {
			return Result{}, fmt.Errorf("false negative for %d", i)
		}
	}

	res := Result{
		Params:    filter.Params(),
		Inserted:  filter.Size(),
		Queries:   cfg.Queries,
		Estimated: filter.EstimatedFalsePositiveRate(),
		FillRatio: filter.FillRatio(),
	}
	for i := cfg.Inserts; i < cfg.Inserts+cfg.Queries; i++ {
		if filter.MaybeContains(strconv.Itoa(i)) {
			res.FalsePositives++
		}
	}
	if res.Queries > 0 {
		res.Empirical = float64(res.FalsePositives) / float64(res.Queries)
	}
	return res, nil
}
