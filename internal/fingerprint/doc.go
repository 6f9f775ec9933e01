// Package fingerprint computes content fingerprints for catalog change
// detection.
//
// The digest is MD5, which is collision-weak by modern standards. That is a
// deliberate choice: the fingerprint exists solely to detect accidental
// content change between pipeline runs and must not be treated as an
// integrity or authenticity guarantee.
package fingerprint
