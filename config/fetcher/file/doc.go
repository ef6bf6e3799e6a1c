// Package file reads settings, input documents and changes files from disk.
//
// The data is read once, at construction, and Fetch hands out copies:
//
//	fetcher, err := file.NewFetcher("base.yaml")()
//	if err != nil {
//	    // not found, permission denied, or a directory (file.ErrPathIsDirectory)
//	}
//	data, err := fetcher.Fetch()
//
// The path "-" reads standard input.
package file
