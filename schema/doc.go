// Package schema infers a structural type tree from an example payload and
// the field descriptors documenting it.
//
// The tree is deliberately small: objects with properties and a required
// set, arrays with one element type, the JSON scalars and "any". It carries
// no validation keywords.
//
// # Inference rules
//
//   - Object keys become properties, required unless described as optional
//     or null in the example (null makes the property nullable instead).
//   - Arrays take their element type from the first element and widen it
//     with every following one; an empty array has elements of kind any.
//   - Numbers without a fraction or exponent are integers.
//   - Descriptor type hints override the inferred kind when compatible and
//     are a [apierrors.SchemaConflictError] when not.
//   - A descriptor naming a location the example does not have is a
//     [apierrors.DanglingDescriptorError], unless it is optional.
//   - Ignored descriptors are checked like any other, then removed.
//
// Without an example the tree is built from the descriptors alone.
package schema
