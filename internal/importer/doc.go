// Package importer implements the dashboard's file import pipeline.
//
// An import attempt moves strictly forward through five stages:
//
//  1. Selector: the declared MIME type must contain "json" or "csv" ([DetectFormat]).
//  2. Reader: the whole file is read once as UTF-8 text ([ReadContent]).
//  3. Parser: JSON is decoded as-is, CSV goes through a small row converter with
//     delimiter auto-detection and numeric coercion ([Parse]).
//  4. Submission: the non-empty dataset is handed to a [Submitter]. The default
//     [SimulatedSubmitter] waits a fixed delay and succeeds ~80% of the time;
//     [HTTPSubmitter] posts the rows to a real endpoint.
//  5. Feedback: the attempt settles into exactly one [Feedback] value.
//
// A [Session] owns the feedback and busy flag for one page instance. It runs
// at most one attempt at a time and always clears busy when the attempt
// settles. Every failure is converted to feedback at the point it is
// detected; nothing propagates past [Session.Import] except the snapshot.
//
// # Error Codes
//
//	IMP001 - unsupported file type    ([ErrUnsupportedType])
//	IMP002 - file could not be read   ([ErrRead])
//	IMP003 - file could not be parsed ([ParseError])
//	IMP004 - empty or invalid dataset ([ErrEmptyDataset])
//	IMP005 - submission failed        ([ErrSubmission])
//	IMP006 - import already running   ([ErrBusy])
//	IMP007 - server busy              ([ErrTooManyImports])
//	IMP008 - import cancelled         (context.Canceled, context.DeadlineExceeded)
//	ERR000 - anything else
package importer
