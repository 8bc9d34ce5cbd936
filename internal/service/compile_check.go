// Package service contains compile-time interface checks.
package service

// Compile-time interface checks
var _ AuthService = (*authService)(nil)
var _ UserService = (*userService)(nil)
var _ RecipeService = (*recipeService)(nil)
var _ CookbookService = (*cookbookService)(nil)
var _ PriceService = (*priceService)(nil)
var _ CacheService = (*cacheServiceImpl)(nil)
