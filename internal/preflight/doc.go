// Package preflight provides readiness checks for the external toolkit and
// the filesystem paths mkvsplit writes to.
//
// These checks run in two contexts:
//   - The extract command calls RunAll before touching any input so a missing
//     mkvextract or an unwritable destination fails fast instead of per file.
//   - The CLI "mkvsplit status" command uses the individual check functions
//     to display toolkit and directory health.
package preflight
