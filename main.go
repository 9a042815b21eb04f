//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/profile"

	"github.com/sbcrane/InferRolesGo/internal/baseline"
	"github.com/sbcrane/InferRolesGo/internal/corpus"
	"github.com/sbcrane/InferRolesGo/internal/gibbs"
	"github.com/sbcrane/InferRolesGo/internal/lnch"
	"github.com/sbcrane/InferRolesGo/internal/mm"
	"github.com/sbcrane/InferRolesGo/internal/report"
	"github.com/sbcrane/InferRolesGo/internal/store"
	"github.com/sbcrane/InferRolesGo/internal/str"
	"github.com/sbcrane/InferRolesGo/internal/vv"
	"github.com/sbcrane/InferRolesGo/web"
)

func main() {
	lnch.ConfigAtLaunch()

	if lnch.Config.Profiling {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	if !lnch.Config.QuietStart {
		lnch.PrintVersion(lnch.Config)
	}

	go mm.StageInfoHub()

	if lnch.Config.TickerActive {
		lnch.Msg.ResetScreen()
		go lnch.Msg.Ticker(vv.TICKERDELAY)
	}

	if lnch.Config.SelfTest {
		selftest()
		os.Exit(0)
	}

	infertwolevels(lnch.Config)
}

// infertwolevels - the run proper: corpus in, gibbs sampling, reports out, model stored
func infertwolevels(c str.CurrentConfiguration) {
	const (
		MSG1 = "%d words in the vocabulary"
		MSG2 = "%d characters loaded into %d books"
		MSG3 = "sampling %d topics (%d themes + %d roles) over %d iterations with %d chains"
	)

	start := time.Now()
	previous := time.Now()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// concurrent launching: the corpus and the model store do not need one another
	var awaiting sync.WaitGroup

	var voc *corpus.Vocabulary
	var books []*str.Book

	awaiting.Add(1)
	go func(awaiting *sync.WaitGroup) {
		defer awaiting.Done()

		v, e := corpus.BuildVocabulary(c.SourcePath, c.VocabSize, c.MaxLines)
		lnch.Msg.EF(e, "BuildVocabulary()")
		voc = v
		lnch.Msg.Timer("A1", fmt.Sprintf(MSG1, voc.Size()), start, previous)

		previous = time.Now()
		bb, e := corpus.LoadCharacters(c.SourcePath, voc, c.Themes, c.Roles, c.MaxLines, rng)
		lnch.Msg.EF(e, "LoadCharacters()")
		books = bb

		nc := 0
		for _, bk := range books {
			nc += len(bk.Characters)
		}
		lnch.Msg.Timer("A2", fmt.Sprintf(MSG2, nc, len(books)), start, previous)
	}(&awaiting)

	var ms store.ModelStore

	awaiting.Add(1)
	go func(awaiting *sync.WaitGroup) {
		defer awaiting.Done()
		if c.NoSave {
			return
		}
		ms = openmodelstore(c)
	}(&awaiting)

	awaiting.Wait()

	b := gibbs.NewBundle(books, voc.Size(), c.Themes, c.Roles, c.Alpha, c.Beta)

	lnch.Msg.Emit(fmt.Sprintf(MSG3, b.NumTopics(), c.Themes, c.Roles, c.Iterations, c.WorkerCount), mm.MSGCRIT)

	var monitor interface{ Shutdown(context.Context) error }
	if c.WebMonitor {
		monitor = web.StartMonitor(c.WebMonitorPort)
	}

	iterate(b, voc, c, rng, start)

	// a last audit regardless of cadence: the merge math must close the books
	lnch.Msg.EF(b.Audit(), "Audit()")

	report.FinalSummary(b, voc.Words)

	if c.Baseline {
		e := baseline.Run(books, voc.Words, c.Themes+c.Roles, c.Iterations, c.WorkerCount)
		lnch.Msg.Error(e)
	}

	e := report.WriteHTMLReport(b, c.ModelName)
	lnch.Msg.Error(e)

	if ms != nil {
		sn := store.NewSnapshot(b, voc.Words, c.ModelName, c.Iterations, report.DominantRoleTable(b))
		lnch.Msg.Error(ms.Add(sn))
		ms.Close()
	}

	if monitor != nil {
		web.MarkDone()
		ctx, cancel := context.WithTimeout(context.Background(), vv.MONITORSHUTDOWN)
		defer cancel()
		_ = monitor.Shutdown(ctx)
	}

	lnch.Msg.Timer("C1", "run complete", start, start)
}

// iterate - the master sampling loop with its report, audit, and reweight cadences
func iterate(b *gibbs.Bundle, voc *corpus.Vocabulary, c str.CurrentConfiguration, rng *rand.Rand, start time.Time) {
	const (
		ITER = "iteration %03d of %03d: %5.2f%% of assignments changed"
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for i := 0; i < c.Iterations; i++ {
		ratio, err := gibbs.RunIteration(ctx, b, c.WorkerCount, i, rng)
		lnch.Msg.EF(err, "RunIteration()")
		lnch.Msg.Emit(fmt.Sprintf(ITER, i, c.Iterations, ratio*100), mm.MSGFYI)
		lnch.Msg.LogStage("GibbsPass")

		if c.WebMonitor {
			web.PushProgress(str.ProgressUpdate{
				Iteration:   i,
				Total:       c.Iterations,
				ChangeRatio: ratio,
				Elapsed:     time.Since(start).Truncate(time.Second).String(),
			})
		}

		rp, au, rw := cadences(i)

		if rp {
			report.PrintTopicWords(b, voc.Words, vv.TOPICREPORTWORDS)
			lnch.Msg.LogStage("TopicReport")
			if c.WebMonitor {
				web.PushTopics(report.TopicTableau(b, voc.Words, vv.TOPICREPORTWORDS))
				if page, e := report.TopicGraphHTML(b, c.ModelName); e == nil {
					web.PushGraph(page)
				}
			}
		}

		if au {
			lnch.Msg.EF(b.Audit(), "Audit()")
			lnch.Msg.LogStage("Audit")
		}

		if rw {
			b.ReestimateAlpha()
			lnch.Msg.LogStage("Reestimate")
		}
	}
}

// cadences - which of the periodic chores fall on iteration i; the topic report
// includes iteration zero so the initial random state is on the record
func cadences(i int) (rp bool, au bool, rw bool) {
	rp = i%vv.TOPICREPORTEVERY == 0
	au = i > 0 && i%vv.AUDITEVERY == 0
	rw = i > vv.REWEIGHTAFTER && i%vv.REWEIGHTEVERY == 0
	return rp, au, rw
}

// openmodelstore - postgres if a login was supplied, the bundled sqlite otherwise
func openmodelstore(c str.CurrentConfiguration) store.ModelStore {
	if c.UsePostgres {
		ms, e := store.NewPGStore(c.PGLogin)
		lnch.Msg.EF(e, "NewPGStore()")
		lnch.Msg.EF(ms.Init(), "PGStore.Init()")
		return ms
	}
	ms, e := store.NewSQLiteStore(c.DBPath)
	lnch.Msg.EF(e, "NewSQLiteStore()")
	lnch.Msg.EF(ms.Init(), "SQLiteStore.Init()")
	return ms
}

// selftest - synthesize a small labeled corpus, run the pipeline on it, and report the purity
func selftest() {
	const (
		HELLO = "running the self-test corpus: %d books, %d characters, %d iterations"
		NBOOK = 40
		NCHAR = 5
		NWORD = 60
	)

	rng := rand.New(rand.NewSource(1))

	lnch.Msg.Clr = "selftest()"

	// three word pools; characters draw mostly from the pool their label names
	labels := []string{"hero", "villain", "chorus"}
	var pools [][]string
	for p := range labels {
		var pool []string
		for w := 0; w < 25; w++ {
			pool = append(pool, fmt.Sprintf("%s_w%d", labels[p], w))
		}
		pools = append(pools, pool)
	}

	src := filepath.Join(os.TempDir(), "irg-selftest.txt")
	f, e := os.Create(src)
	lnch.Msg.EC(e)

	for bk := 0; bk < NBOOK; bk++ {
		for ch := 0; ch < NCHAR; ch++ {
			p := rng.Intn(len(pools))
			line := fmt.Sprintf("b%d%sc%d %s", bk, vv.BOOKIDSEPARATOR, ch, labels[p])
			for w := 0; w < NWORD; w++ {
				pool := pools[p]
				if rng.Float64() < 0.2 {
					pool = pools[rng.Intn(len(pools))]
				}
				line += " " + pool[rng.Intn(len(pool))]
			}
			_, e = fmt.Fprintln(f, line)
			lnch.Msg.EC(e)
		}
	}
	lnch.Msg.EC(f.Close())

	c := lnch.Config
	c.SourcePath = src
	c.Themes = 3
	c.Roles = 3
	c.VocabSize = 100
	c.Iterations = vv.SELFTESTITERATIONS
	c.NoSave = true
	c.Baseline = false
	c.WebMonitor = false

	lnch.Msg.Emit(fmt.Sprintf(HELLO, NBOOK, NBOOK*NCHAR, c.Iterations), mm.MSGMAND)

	infertwolevels(c)

	_ = os.Remove(src)
	_ = os.Remove(vv.VOCABOUTFILE)
	_ = os.Remove(fmt.Sprintf(vv.REPORTOUTFILE, c.ModelName))
}
