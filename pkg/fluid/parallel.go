package fluid

import "sync"

// forRows executes fn for each j in [start,end). With more than one worker
// the range is split into contiguous bands, one goroutine per band. fn must
// only write cells of its own row.
func forRows(start, end, workers int, fn func(j int)) {
	total := end - start
	if total <= 0 {
		return
	}
	if workers > total {
		workers = total
	}
	if workers <= 1 {
		for j := start; j < end; j++ {
			fn(j)
		}
		return
	}
	var wg sync.WaitGroup
	chunk := (total + workers - 1) / workers
	for s := start; s < end; s += chunk {
		e := min(s+chunk, end)
		wg.Add(1)
		go func(ss, ee int) {
			defer wg.Done()
			for j := ss; j < ee; j++ {
				fn(j)
			}
		}(s, e)
	}
	wg.Wait()
}
