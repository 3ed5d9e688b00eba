/*
Package xdress generates language bindings driven by a dynamic type
registry.

# Architecture pipeline (for developers)

Each element in the pipeline has distinct sub-packages that do a
specific part. These are then glued together in the xdress command.
 1. [config]: Parse user-supplied TOML overlay files into registry tables
 2. [scanner]: Parse target source files and register their classes
 3. [types]: Canonicalize type descriptors and derive spellings, names,
    imports and converter code for the emitter
*/
package xdress
