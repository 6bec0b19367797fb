// Package relay moves data from HTTP providers to AWS sinks in a single pass.
//
// Two pipelines are provided. WeatherRelay polls a weather provider for a list
// of cities and writes one JSON object per city to an ObjectWriter (S3 or
// Kinesis). FixtureRelay fetches the current day's soccer matches and publishes
// them as one message through a Publisher (SNS).
//
// Each unit of work goes fetch → transform → write. A failed fetch produces no
// write. Nothing is retried.
package relay
