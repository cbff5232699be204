// Package distcontent implements the content distribution and targeting
// subsystem of the distributor portal admin console: deciding which
// distributor organizations may see each piece of content, and the
// multi-step publication flows (batch file ingestion, release
// creation/targeting/publishing, multi-language translation fan-out) that
// must stay consistent under partial failure.
//
// The package is a library. Persistence and blob storage are pluggable via
// the Repository and BlobStore interfaces (see repo/ and storage/ for the
// provided backends), and the Service is assembled with functional options:
//
//	svc, err := distcontent.New(
//	    distcontent.WithRepository(memory.New()),
//	    distcontent.WithBlobStore(memorystorage.New()),
//	    distcontent.WithTranslator(translateClient),
//	)
package distcontent
