// Package fuzztests houses Go fuzz harnesses for the front end
// (source -> lexer -> parser -> lower). They guard against panics, hangs and
// broken range invariants on arbitrary input.
//
// Назначение: загрузить байты в FileSet и прогнать их через конвейер,
// проверяя инварианты из internal/testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
