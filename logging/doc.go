// Package logging provides the ambient structured logger used
// throughout jobtree. Its API mirrors the teacher's
// internal/infrastructure/logger package (New/With/SetDefault/Default
// plus leveled methods); the backing encoder is rs/zerolog, the
// logging dependency the teacher repo's sibling src/ copy actually
// imports (see DESIGN.md).
package logging
