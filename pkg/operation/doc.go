/*
Package operation implements the runnable units of gervill-mirror.

	+-----------+      +-----------+      +-----------+
	| Download  | ---> |  mirror/  | ---> |   Copy    |
	| (network) |      | (on disk) |      |  (local)  |
	+-----------+      +-----------+      +-----+-----+
	                                            |
	                      renamed / original-comp / renamed-comp
	                                            |
	                                      +-----+-----+
	                                      |   Diff    |
	                                      +-----------+

🎯 Purpose:
- DownloadOperation walks remote roots (or single files) into the mirror
- CopyOperation regenerates the three derived trees from the mirror
- DiffOperation reports how far the renamed copies drift from the originals

🔄 Flow:
Every operation is executed by Runner, one after the other on the calling
goroutine. The first error stops the run; nothing is retried.

🤝 Collaborators:
- mirror.Fetcher: remote listing and per-file download
- mirror.Copier (rewrite.Engine): derives and writes the copies
- status.FileManager: every read, write and walk of a local tree

🔍 Example:

	runner := operation.NewRunner(nil)
	err := runner.Run(ctx,
		operation.NewDownloadOperation(fetcher, cfg.Roots...),
		operation.NewCopyOperation(mirrorTree, engine, ""),
	)
*/
package operation
