// Package cases expands a batch of named cases against a base document.
//
// A batch changes document looks like:
//
//	cases:
//	  - case: 1
//	    output_type: small
//	    service:replicas: 1
//	  - case: 2
//	    service:replicas: 5
//
// The case and output_type keys are metadata. Every other key is a docpath path
// whose value replaces the node at that path.
package cases
