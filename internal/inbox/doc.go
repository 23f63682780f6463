// Package inbox watches a drop directory and hands settled audio files to
// an import handler. A file is settled once its size has stopped changing
// for the settle window, so partially copied files never import. Handled
// files are removed from the inbox; files whose handler fails stay put for
// the next run.
package inbox
