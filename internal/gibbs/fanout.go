//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package gibbs

import (
	"context"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/sbcrane/InferRolesGo/internal/str"
	"github.com/sbcrane/InferRolesGo/internal/vv"
)

// see https://go.dev/blog/pipelines : Parallel digestion & Fan-out, fan-in & Explicit cancellation

// One iteration across N chains: shuffle the books, deal them into N strided
// sequences, give every chain a private copy of the word-topic matrix, sample, then
// merge each chain's deltas back into the shared matrix. No chain ever sees another
// chain's in-flight counts, so the merge is plain addition in any order.

type chainjob struct {
	books []*str.Book
	seed  int64
}

// RunIteration - run one full Gibbs pass, fanned out over workers chains; returns the
// mean change ratio across chains ((moved+1)/(stayed+1), the sampler's restlessness);
// a chain that hits a degenerate probability row stops the run
func RunIteration(ctx context.Context, b *Bundle, workers int, iteration int, rng *rand.Rand) (float64, error) {
	cn := Constants{
		NumThemes: b.NumThemes,
		NumTopics: b.NumTopics(),
		Alpha:     b.Alpha,
		Beta:      b.Beta,
	}

	if workers < 2 {
		// single chain: sample in place against the shared matrix; nothing to merge
		res := SampleChain(b.Books, b.TW, cn, chainseed(0, iteration))
		return res.ChangeRatio, res.Err
	}

	if workers > len(b.Books) {
		workers = len(b.Books)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// [a] load the chain jobs into a channel
	jobchannel := chainfeeder(ctx, b, workers, iteration, rng)

	// [b] fan out to run the chains in parallel
	chainchannels := make([]<-chan ChainResult, workers)
	for i := 0; i < workers; i++ {
		chainchannels[i] = chainsampler(ctx, b, cn, jobchannel)
	}

	// [c] fan in to gather the results into a single channel
	resultchan := chainaggregator(ctx, chainchannels...)

	// [d] pull the results off of the result channel and merge them
	return chaincollation(ctx, b, resultchan)
}

// chainfeeder - shuffle and deal the books, then emit one chainjob per chain
func chainfeeder(ctx context.Context, b *Bundle, workers int, iteration int, rng *rand.Rand) <-chan chainjob {
	emitjobs := make(chan chainjob, workers)

	chains := ShuffleDivide(b.Books, workers, rng)

	feed := func() {
		defer close(emitjobs)
		for i := 0; i < len(chains); i++ {
			select {
			case <-ctx.Done():
				return
			default:
				emitjobs <- chainjob{books: chains[i], seed: chainseed(i, iteration)}
			}
		}
	}

	go feed()

	return emitjobs
}

// chainsampler - this is where the sampling happens... grab a chainjob; copy the matrix; run the chain; emit the result
func chainsampler(ctx context.Context, b *Bundle, cn Constants, jobchannel <-chan chainjob) <-chan ChainResult {
	resultchannel := make(chan ChainResult)

	consume := func() {
		defer close(resultchannel)
		for j := range jobchannel {
			select {
			case <-ctx.Done():
				return
			default:
				// deep copy, no data sharing: parallel chains against a live matrix do bad things
				twcopy := mat.DenseCopyOf(b.TW)
				resultchannel <- SampleChain(j.books, twcopy, cn, j.seed)
			}
		}
	}

	go consume()

	return resultchannel
}

// chainaggregator - gather the finished chains into one place and feed them to chaincollation
func chainaggregator(ctx context.Context, chainchannels ...<-chan ChainResult) <-chan ChainResult {
	var wg sync.WaitGroup
	resultchann := make(chan ChainResult)

	broadcast := func(crc <-chan ChainResult) {
		defer wg.Done()
		for r := range crc {
			select {
			case resultchann <- r:
			case <-ctx.Done():
				return
			}
		}
	}

	wg.Add(len(chainchannels))
	for _, cc := range chainchannels {
		go broadcast(cc)
	}

	go func() {
		wg.Wait()
		close(resultchann)
	}()

	return resultchann
}

// chaincollation - apply every chain's deltas to the shared matrix and reassemble the book list
func chaincollation(ctx context.Context, b *Bundle, results <-chan ChainResult) (float64, error) {
	numtopics := b.NumTopics()

	var books []*str.Book
	var firsterr error
	ratio := 0.0
	chains := 0

	apply := func(r ChainResult) {
		// a failed chain made no deltas; keep its books so the list stays whole
		if r.Err != nil {
			if firsterr == nil {
				firsterr = r.Err
			}
			books = append(books, r.Books...)
			return
		}
		for i, d := range r.Changes {
			if d == 0 {
				continue
			}
			w := i / numtopics
			t := i % numtopics
			b.TW.Set(w, t, b.TW.At(w, t)+float64(d))
		}
		books = append(books, r.Books...)
		ratio += r.ChangeRatio
		chains += 1
	}

	done := false
	for {
		if done {
			break
		}
		select {
		case <-ctx.Done():
			done = true
		case r, ok := <-results:
			if ok {
				apply(r)
			} else {
				done = true
			}
		}
	}

	b.Books = books

	if firsterr != nil {
		return 0, firsterr
	}
	if chains == 0 {
		return 0, nil
	}
	return ratio / float64(chains), nil
}

// ShuffleDivide - shuffle the books and deal them into n strided chains;
// [1 2 3 4 5 6 7] with n=3 becomes [1 4 7] [2 5] [3 6]
func ShuffleDivide(books []*str.Book, n int, rng *rand.Rand) [][]*str.Book {
	rng.Shuffle(len(books), func(i, j int) {
		books[i], books[j] = books[j], books[i]
	})

	chains := make([][]*str.Book, n)
	for i := 0; i < n; i++ {
		for j := i; j < len(books); j += n {
			chains[i] = append(chains[i], books[j])
		}
	}

	return chains
}

// chainseed - a different, deterministic random state for each chain of each iteration
func chainseed(chain int, iteration int) int64 {
	return int64(((chain + 1) * (iteration + 1)) % vv.WORKERSEEDMOD)
}
