package mysql

const upsertVenueSQL = `
INSERT INTO venues
  (id, name, address, description, category, lat, lng, photo,
   schedule_open, schedule_close, capacity, genre_tags, avg_rating, approved)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name           = VALUES(name),
  address        = VALUES(address),
  description    = VALUES(description),
  category       = VALUES(category),
  lat            = VALUES(lat),
  lng            = VALUES(lng),
  photo          = VALUES(photo),
  schedule_open  = VALUES(schedule_open),
  schedule_close = VALUES(schedule_close),
  capacity       = VALUES(capacity),
  genre_tags     = VALUES(genre_tags),
  avg_rating     = VALUES(avg_rating),
  approved       = VALUES(approved),
  updated_at     = CURRENT_TIMESTAMP
`

const venueColumns = `
  id, name, address, description, category, lat, lng, photo,
  schedule_open, schedule_close, capacity, genre_tags, avg_rating, approved`

const listVenuesSQL = `
SELECT` + venueColumns + `
FROM venues
ORDER BY name, id
`

const getVenueSQL = `
SELECT` + venueColumns + `
FROM venues
WHERE id = ?
`
