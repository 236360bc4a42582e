// Package worker выполняет запуски CSPP Active Fires.
//
// # Обзор
//
// Пакет содержит три компонента:
//
//   - Invoker — запускает CSPP как дочерний процесс по фиксированному
//     шаблону аргументов, стримит его вывод в лог, создаёт свежую
//     рабочую директорию на каждый запуск
//   - Collector — находит EDR-файлы в рабочей директории
//   - Pool — пул фиксированного размера, выполняющий invoke → collect
//     для каждого job и возвращающий дескриптор завершения (Handle)
//
// # Обработка job
//
//  1. Submit(job) ставит job в ограниченную очередь и возвращает Handle
//  2. Свободный слот создаёт рабочую директорию и запускает CSPP
//  3. После выхода процесса Collector перечисляет продукты
//  4. Handle разрешается ровно одним JobResult
//
// # Ошибки
//
// Любая ошибка invoker'а или collector'а конвертируется в JobResult
// с пустым списком продуктов и предупреждением в логе. Пул никогда
// не завершается из-за неудачи одного job; пустой список продуктов —
// единственный сигнал о неудаче для управляющего цикла.
package worker
