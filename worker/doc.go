// Package worker runs entry exports in parallel.
//
// BatchExporter is the usual entry point: it exports a list of entries
// with a bounded number of goroutines and returns results in entry order.
//
//	be := worker.NewBatchExporter(exporter.Export, 4)
//	batch := be.ExportBatch(ctx, reg.Entries())
//	for _, jr := range batch.Results {
//	    if jr.Error != nil {
//	        // cancelled or failed
//	    }
//	    // use jr.Result.Document
//	}
//
// Pool backs the stream package: jobs carry their input Index, results
// arrive in completion order and Stop closes Results once the queue drains.
//
//	pool := worker.NewPool(ctx, exporter, 4)
//	defer pool.Close()
//	go func() {
//	    for i, id := range ids {
//	        pool.Submit(worker.Job{ID: id.String(), Index: i, Entry: id})
//	    }
//	    pool.Stop()
//	}()
//	for jr := range pool.Results() {
//	    // jr.Index is the position in ids
//	}
package worker
