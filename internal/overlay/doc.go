// Package overlay applies declarative YAML configuration to analyzed type
// descriptors. An overlay can ignore members, rename them on the wire and
// mark the deserialization constructor of types whose source cannot carry
// tags or directives.
package overlay
