// Package lower turns a parsed AST into a scoped module.
//
// Четыре прохода по дереву, строго по порядку:
//  1. scopes: let/fn/macro получают дочерний scope; результат: карта node→scope
//     (по желанию ещё и маркеры SetScope вокруг узла);
//  2. bindings: параметры, имена let и define становятся AssignSymbol;
//  3. references: Symbol разрешаются в InternedSymbol через ResolveLabel;
//  4. structure: особые формы получают типизированные payload'ы.
//
// Любая ошибка прерывает lowering целиком: частичного дерева нет.
// Quoted data and metadata are never walked.
package lower
