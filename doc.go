// Package apng implements a decoder for the Animated Portable Network
// Graphics (APNG) format, an extension of PNG carrying acTL/fcTL/fdAT
// chunks alongside the standard IHDR/PLTE/IDAT/tRNS/IEND chunks.
//
// It decodes a complete stream into a fully composited sequence of RGBA8
// frames — each one a standalone raster ready to display, with the
// dispose_op/blend_op canvas logic already applied — plus a loop count and
// per-frame delay. A plain (non-animated) PNG decodes to a single frame.
//
// This package does not register itself with the standard library's image
// package by default; call Register to opt in to image.Decode support.
//
// Basic usage:
//
//	seq, err := apng.Decode(reader)
package apng
