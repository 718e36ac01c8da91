// Package metrics provides run metrics for mdimages.
//
// Components receive a Recorder. NoopRecorder is the default and does
// nothing; PrometheusRecorder registers client_golang collectors on a
// caller-supplied registry. Because the tool exits after one run there is
// no scrape endpoint: the registry is written once in the node_exporter
// textfile format with WriteTextfile.
package metrics
