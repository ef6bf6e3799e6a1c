// Package cli builds the yamlcase command tree.
//
// Settings come from DefaultSettings, then the --config file, then YAMLCASE_*
// environment variables and finally flags given on the command line. Only
// values that are explicitly set override the layer below.
package cli
