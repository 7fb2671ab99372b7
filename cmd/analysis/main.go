//go:build analysis

// Analysis tool: runs repeated signing rounds and reports the empirical
// distribution of the rejection loop. Build with -tags analysis.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"pqcrystals/dsa"
	"pqcrystals/measure"
	"pqcrystals/ring"
)

type summaryStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

func computeStats(x []float64) summaryStats {
	n := len(x)
	if n == 0 {
		return summaryStats{}
	}
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)
	var m float64
	for _, v := range x {
		m += v
	}
	m /= float64(n)
	var m2 float64
	for _, v := range x {
		d := v - m
		m2 += d * d
	}
	std := 0.0
	if n > 1 {
		std = math.Sqrt(m2 / float64(n-1))
	}
	return summaryStats{
		Count: n, Mean: m, Std: std,
		Min: cp[0], Median: cp[n/2], Max: cp[n-1],
	}
}

func computeHistogram(values []float64, nbins int) (centers []string, counts []int) {
	cp := append([]float64(nil), values...)
	sort.Float64s(cp)
	minv, maxv := cp[0], cp[len(cp)-1]
	width := (maxv - minv) / float64(nbins)
	if width <= 0 {
		width = 1
	}
	centers = make([]string, nbins)
	counts = make([]int, nbins)
	for i := 0; i < nbins; i++ {
		centers[i] = fmt.Sprintf("%.1f", minv+(float64(i)+0.5)*width)
	}
	for _, v := range values {
		idx := int((v - minv) / width)
		if idx >= nbins {
			idx = nbins - 1
		}
		counts[idx]++
	}
	return centers, counts
}

func newHistogramChart(title string, values []float64, nbins int) *charts.Bar {
	stats := computeStats(values)
	centers, counts := computeHistogram(values, nbins)
	items := make([]opts.BarData, len(counts))
	for i, c := range counts {
		items[i] = opts.BarData{Value: c}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
			Subtitle: fmt.Sprintf("n=%d, mean=%.3f, std=%.3f, median=%.1f",
				stats.Count, stats.Mean, stats.Std, stats.Median),
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(centers).
		AddSeries("count", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

// zCoefficients recovers the centered response coefficients from the
// signature wire format.
func zCoefficients(sig []byte) []float64 {
	const zb = ring.N * 18 / 8
	out := make([]float64, 0, dsa.L*ring.N)
	for i := 0; i < dsa.L; i++ {
		raw := ring.BitUnpack(sig[dsa.CTildeSize+i*zb:dsa.CTildeSize+(i+1)*zb], 18)
		for _, v := range raw {
			out = append(out, float64(int32(dsa.Gamma1-1)-int32(v)))
		}
	}
	return out
}

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func main() {
	runs := flag.Int("runs", 100, "number of signing rounds")
	outDir := flag.String("out", "Measure_Reports", "output directory for reports")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	pk, sk, err := dsa.GenerateKeyPair()
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	pkb, skb := pk.Bytes(), sk.Bytes()
	measure.Global.SnapshotAndReset()

	var attempts, weights, signMs, verifyMs, zvals []float64
	for i := 0; i < *runs; i++ {
		msg := []byte(fmt.Sprintf("analysis-run-%d", i))

		start := time.Now()
		sig, err := dsa.Sign(skb, msg)
		if err != nil {
			log.Fatalf("sign run %d: %v", i, err)
		}
		signMs = append(signMs, float64(time.Since(start).Microseconds())/1000)

		stats := measure.Global.SnapshotAndReset()
		attempts = append(attempts, float64(stats["dsa/sign/attempts"]))
		weights = append(weights, float64(stats["dsa/sign/hint_weight"]))

		start = time.Now()
		ok := dsa.Verify(pkb, msg, sig)
		verifyMs = append(verifyMs, float64(time.Since(start).Microseconds())/1000)
		if !ok {
			log.Fatalf("verify run %d: rejected a fresh signature", i)
		}

		// The z histogram gets dense fast; a few runs suffice.
		if i < 4 {
			zvals = append(zvals, zCoefficients(sig)...)
		}
		if (i+1)%10 == 0 {
			log.Printf("[analysis] run %d/%d", i+1, *runs)
		}
	}

	page := components.NewPage()
	page.AddCharts(
		newHistogramChart("signing attempts per signature", attempts, 16),
		newHistogramChart("hint weight per signature", weights, 24),
		newHistogramChart("response coefficients z", zvals, 64),
		newHistogramChart("sign latency (ms)", signMs, 24),
		newHistogramChart("verify latency (ms)", verifyMs, 24),
	)
	htmlPath := filepath.Join(*outDir, "signing_report.html")
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create report: %v", err)
	}
	if err := page.Render(f); err != nil {
		log.Fatalf("render report: %v", err)
	}
	f.Close()

	statsPath := filepath.Join(*outDir, "signing_stats.json")
	if err := saveJSON(statsPath, map[string]summaryStats{
		"attempts":    computeStats(attempts),
		"hint_weight": computeStats(weights),
		"z":           computeStats(zvals),
		"sign_ms":     computeStats(signMs),
		"verify_ms":   computeStats(verifyMs),
	}); err != nil {
		log.Fatalf("save stats: %v", err)
	}
	log.Printf("[analysis] wrote %s and %s", htmlPath, statsPath)
}
