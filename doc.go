// Package triage routes free-text civic complaints to municipal categories
// such as "Roads" or "Sanitation".
//
// # Quick Start
//
//	clf, err := triage.New("artifacts/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer clf.Close()
//
//	p, err := clf.Predict(ctx, "There is a huge pothole on my street")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s (via %s)\n", p.Category, p.Source)
//
// # Pipeline
//
// Predict cleans the text, then consults an ordered keyword table. The
// first keyword found in the text decides the category and the model is
// skipped. Otherwise the text is tokenized, encoded to the fixed length the
// model was trained with, and classified by a bag-of-embeddings model.
//
// # Thread Safety
//
// Classifier is safe for concurrent use. The vocabulary, label codec and
// model parameters are read-only after load; scratch buffers come from an
// internal session pool sized with WithPoolSize.
//
// # Artifacts
//
// New reads three files written by the train package: vocab.pb, labels.pb
// and model.pb. They must come from the same training run and agree on
// vocabulary size and class count, otherwise New fails.
package triage
