// Package plan reads batch partition plans and evaluates them.
//
// A plan file lists several partition requests so that a whole address
// layout can be computed and reviewed in one run. Plans are written by
// hand, so JSON plans may carry comments and trailing commas (stripped
// with github.com/tidwall/jsonc); YAML plans are decoded with yaml.v3.
//
// Key responsibilities:
//   - Load and decode a plan file (.json/.jsonc or .yaml/.yml)
//   - Check the plan structure (names, mutually exclusive fields)
//   - Evaluate each entry through the subnet partitioner
//   - Report entries whose parent networks overlap
package plan
