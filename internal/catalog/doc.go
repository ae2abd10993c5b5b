// Package catalog supplies the read-only game content: purchasable items,
// badges with their unlock criteria, and quests with their activities. A
// builtin catalog ships embedded in the binary; a directory of TOML files
// can override it.
package catalog
