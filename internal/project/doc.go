// Package project defines the in-memory job configuration model: projects,
// template/implementation markers, sync policies, parameter blocks, trigger
// sets, and matrix axis lists, together with the XML document codec used by
// the persistence layer.
//
// A project's name is its identity and lives outside the serialized document.
// The document declares structure only; applying a template's document onto
// an implementation (see internal/sync) therefore never changes who the
// implementation is, only what it contains.
package project
