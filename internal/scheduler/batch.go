package scheduler

import "github.com/showrunner-hq/showrunner-api/internal/models"

// PartitionBatches splits the aggregated scene set into generation-sized
// batches bounded by scene count. All scenes of one location always land in a
// single batch; a location whose own scene count exceeds the limit forms its
// own oversized batch rather than being split.
func PartitionBatches(scenes []models.Scene, profiles *LocationProfiles, limit int) []Batch {
	if limit <= 0 {
		limit = DefaultBatchSceneLimit
	}
	if len(scenes) == 0 {
		return nil
	}

	var batches []Batch
	current := Batch{}
	currentCount := 0

	for _, name := range profiles.Order {
		profile := profiles.ByName[name]
		if currentCount > 0 && currentCount+profile.SceneCount > limit {
			batches = append(batches, current)
			current = Batch{}
			currentCount = 0
		}
		current.Locations = append(current.Locations, name)
		currentCount += profile.SceneCount
	}
	if currentCount > 0 {
		batches = append(batches, current)
	}

	for i := range batches {
		batches[i].Index = i
		batches[i].Scenes = filterScenes(scenes, batches[i].Locations)
	}
	return batches
}

// filterScenes returns the scenes belonging to the given locations, keeping
// aggregate order.
func filterScenes(scenes []models.Scene, locations []string) []models.Scene {
	member := make(map[string]bool, len(locations))
	for _, name := range locations {
		member[name] = true
	}
	var filtered []models.Scene
	for _, scene := range scenes {
		if member[scene.Location] {
			filtered = append(filtered, scene)
		}
	}
	return filtered
}
