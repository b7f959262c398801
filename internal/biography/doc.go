// Package biography groups the HTTP clients that fetch artist biographies
// for gender classification. Each subpackage implements
// gender.BiographySource and reports unusable pages through the gender
// package's sentinel errors.
package biography
