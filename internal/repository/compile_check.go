// Package repository contains compile-time interface checks.
package repository

// Compile-time interface checks
var _ UsersRepo = (*usersRepo)(nil)
var _ ItemsRepo = (*itemsRepo)(nil)
var _ PricesRepo = (*pricesRepo)(nil)
var _ RecipesRepo = (*recipesRepo)(nil)
var _ CookbooksRepo = (*cookbooksRepo)(nil)
