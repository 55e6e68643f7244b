package repo

import (
	"strconv"

	"fleetdash/internal/platform/store"
)

// operation names double as metric labels
const (
	opSnapshots  = "snapshots"
	opBattery    = "battery"
	opHeartbeats = "heartbeats"
	opLocations  = "locations"
	opUptime     = "uptime"
)

// LocationsPerDay is how many pings a locations read keeps per zone day,
// newest first. Sources return one more than that so a full day can be told
// apart from a cut one
const LocationsPerDay = 500

var locationLimit = strconv.Itoa(LocationsPerDay + 1)

// every query filters on the zone date of the event, never on the raw utc timestamp
const (
	bqWindow = `
WHERE DATE(ts, @tz) BETWEEN CAST(@startDate AS DATE) AND CAST(@endDate AS DATE)
  AND (@deviceId = '' OR device_id = @deviceId)`

	chWindow = `
WHERE toDate(ts, @tz) BETWEEN toDate(@startDate) AND toDate(@endDate)
  AND (@deviceId = '' OR device_id = @deviceId)`
)

var queries = map[store.Dialect]map[string]string{
	store.DialectBigQuery: {
		opSnapshots: `
SELECT
  device_id,
  ARRAY_AGG(battery_pct IGNORE NULLS ORDER BY ts DESC LIMIT 1)[SAFE_OFFSET(0)] AS battery_pct,
  ARRAY_AGG(lat IGNORE NULLS ORDER BY ts DESC LIMIT 1)[SAFE_OFFSET(0)] AS lat,
  ARRAY_AGG(lng IGNORE NULLS ORDER BY ts DESC LIMIT 1)[SAFE_OFFSET(0)] AS lng,
  IFNULL(SUM(uptime_s), 0) AS uptime_s,
  MAX(IF(kind = 'heartbeat', ts, NULL)) AS last_heartbeat
FROM telemetry_events` + bqWindow + `
GROUP BY device_id
ORDER BY device_id`,

		opBattery: `
SELECT device_id, FORMAT_DATE('%F', DATE(ts, @tz)) AS day, AVG(battery_pct) AS avg_pct, MIN(battery_pct) AS min_pct
FROM telemetry_events` + bqWindow + `
  AND kind = 'battery'
GROUP BY device_id, day
ORDER BY day, device_id`,

		opHeartbeats: `
SELECT FORMAT_DATE('%F', DATE(ts, @tz)) AS day, COUNT(*) AS n
FROM telemetry_events` + bqWindow + `
  AND kind = 'heartbeat'
GROUP BY day
ORDER BY day`,

		opLocations: `
SELECT device_id, ts, lat, lng
FROM telemetry_events` + bqWindow + `
  AND kind = 'location'
QUALIFY ROW_NUMBER() OVER (PARTITION BY DATE(ts, @tz) ORDER BY ts DESC) <= ` + locationLimit + `
ORDER BY ts`,

		opUptime: `
SELECT device_id, IFNULL(SUM(uptime_s), 0) AS uptime_s
FROM telemetry_events` + bqWindow + `
GROUP BY device_id
ORDER BY device_id`,
	},

	store.DialectClickHouse: {
		opSnapshots: `
SELECT
  device_id,
  toFloat64(argMaxIf(battery_pct, ts, kind = 'battery')) AS battery_pct,
  toFloat64(argMaxIf(lat, ts, kind = 'location')) AS lat,
  toFloat64(argMaxIf(lng, ts, kind = 'location')) AS lng,
  toInt64(sum(uptime_s)) AS uptime_s,
  maxIfOrNull(ts, kind = 'heartbeat') AS last_heartbeat
FROM telemetry_events` + chWindow + `
GROUP BY device_id
ORDER BY device_id`,

		opBattery: `
SELECT device_id, toString(toDate(ts, @tz)) AS day, toFloat64(avg(battery_pct)) AS avg_pct, toFloat64(min(battery_pct)) AS min_pct
FROM telemetry_events` + chWindow + `
  AND kind = 'battery'
GROUP BY device_id, day
ORDER BY day, device_id`,

		opHeartbeats: `
SELECT toString(toDate(ts, @tz)) AS day, toInt64(count()) AS n
FROM telemetry_events` + chWindow + `
  AND kind = 'heartbeat'
GROUP BY day
ORDER BY day`,

		opLocations: `
SELECT device_id, ts, toFloat64(lat) AS lat, toFloat64(lng) AS lng
FROM (
  SELECT device_id, ts, lat, lng
  FROM telemetry_events` + chWindow + `
    AND kind = 'location'
  ORDER BY ts DESC
  LIMIT ` + locationLimit + ` BY toDate(ts, @tz)
)
ORDER BY ts`,

		opUptime: `
SELECT device_id, toInt64(sum(uptime_s)) AS uptime_s
FROM telemetry_events` + chWindow + `
GROUP BY device_id
ORDER BY device_id`,
	},
}
