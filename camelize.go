package gridpager

import "github.com/samber/lo"

// Camelize converts snake_case, kebab-case or camelCase names to lowerCamel.
//
// Example: "created_at" -> "createdAt", "user-id" -> "userId".
func Camelize(name string) string {
	return lo.CamelCase(name)
}

// exportedName converts a member name to the UpperCamel form Go uses for
// exported identifiers.
//
// Example: "created_at" -> "CreatedAt".
func exportedName(name string) string {
	return lo.PascalCase(name)
}
