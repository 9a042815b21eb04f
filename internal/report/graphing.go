//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package report

import (
	"bytes"
	"fmt"
	"os"

	"github.com/danaugrs/go-tsne/tsne"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/mat"

	"github.com/sbcrane/InferRolesGo/internal/gibbs"
	"github.com/sbcrane/InferRolesGo/internal/lnch"
	"github.com/sbcrane/InferRolesGo/internal/mm"
	"github.com/sbcrane/InferRolesGo/internal/vv"
)

//
// GRAPHING
//

// see https://echarts.apache.org/en/option.html#series-bar and #series-scatter

// TopicGraphHTML - a self-contained html page: a bar chart of topic weights and a
// t-SNE scatter of the characters in role space
func TopicGraphHTML(b *gibbs.Bundle, name string) ([]byte, error) {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s: %s", vv.MYNAME, name)
	page.AddCharts(topicweightbar(b, name), rolescatter(b))

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("TopicGraphHTML() could not render the charts: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTMLReport - render TopicGraphHTML to vv.REPORTOUTFILE and say where it went
func WriteHTMLReport(b *gibbs.Bundle, name string) error {
	const (
		MSG1 = "wrote '%s'"
	)

	html, err := TopicGraphHTML(b, name)
	if err != nil {
		return err
	}

	fn := fmt.Sprintf(vv.REPORTOUTFILE, name)
	if err = os.WriteFile(fn, html, vv.WRITEPERMS); err != nil {
		return fmt.Errorf("WriteHTMLReport() could not write '%s': %w", fn, err)
	}

	lnch.Msg.Emit(fmt.Sprintf(MSG1, fn), mm.MSGNOTE)
	return nil
}

// topicweightbar - every topic's scaled accumulated weight, themes then roles
func topicweightbar(b *gibbs.Bundle, name string) *charts.Bar {
	const (
		TITLE = "scaled accumulated weight of each topic"
	)

	weights := ScaledTopicWeights(b)

	axis := make([]string, b.NumTopics())
	vals := make([]opts.BarData, b.NumTopics())
	for t := 0; t < b.NumTopics(); t++ {
		if t < b.NumThemes {
			axis[t] = fmt.Sprintf("T%d", t)
		} else {
			axis[t] = fmt.Sprintf("R%d", t-b.NumThemes)
		}
		vals[t] = opts.BarData{Value: weights[t]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: TITLE, Subtitle: name}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)
	bar.SetXAxis(axis).AddSeries("weight", vals)

	return bar
}

// rolescatter - embed every character's role proportions into 2d via t-SNE
func rolescatter(b *gibbs.Bundle) *charts.Scatter {
	const (
		TITLE   = "characters in role space (t-SNE)"
		PERPLEX = 150 // default 300
		LEARNRT = 100 // default 100
		MAXITER = 150 // default 300
		VERBOSE = false
		SYMSIZE = 6
	)

	var names []string
	var rows []float64
	for _, bk := range b.Books {
		for _, ch := range bk.Characters {
			if len(names) >= vv.MAXGRAPHCHARS {
				break
			}
			names = append(names, ch.Name)
			nw := float64(ch.NumWords())
			for _, ct := range ch.RoleCounts {
				rows = append(rows, float64(ct)/nw)
			}
		}
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: TITLE}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Formatter: "{b}"}),
	)

	if len(names) < 2 {
		return sc
	}

	// one row per character; a 2-column embedding comes back in t.Y
	wv := mat.NewDense(len(names), b.NumRoles, rows)
	t := tsne.NewTSNE(2, PERPLEX, LEARNRT, MAXITER, VERBOSE)
	t.EmbedData(wv, nil)

	data := make([]opts.ScatterData, len(names))
	for i := range names {
		data[i] = opts.ScatterData{
			Name:       names[i],
			Value:      []interface{}{t.Y.At(i, 0), t.Y.At(i, 1)},
			SymbolSize: SYMSIZE,
		}
	}
	sc.AddSeries("characters", data)

	return sc
}
